// Package domain models the signals planner: a personal catalog of named
// streets, the calmness score used to rank them, and the favorites a driver
// saves after planning a trip.
//
// # Street Catalog
//
// Each [StreetRecord] is a note the driver keeps about a street they know:
//
//	name          unique identifier, e.g. "E Cottage St"
//	rating        integer, higher = calmer (more traffic signals, fewer stop signs)
//	turnsPenalty  integer >= 0, cost of the turns the street forces on a trip
//	notes         free text, shown to the driver, never scored
//
// The catalog is immutable for the lifetime of a [Ranker]. Older catalog files
// call the rating column "score"; [LoadCatalog] accepts either name.
//
// # Scoring
//
// A street's score starts at its rating and is adjusted by two independent
// preferences:
//
//	preferLights  rating >= LightsThreshold (default 8)  -> +PreferLightsWeight (default 1.0)
//	avoidTurns    TurnPenaltyPerStreet                   -> -turnsPenalty
//	              TurnPenaltyFlatBonus (default)         -> +AvoidTurnsWeight * 0.5 (default 0.25)
//
// The flat bonus is applied to every street regardless of its turn cost, so
// with that mode avoidTurns never changes the order, only the displayed score.
// The two modes are alternatives and are never combined.
//
// Ranking is a stable descending sort: streets with equal scores keep their
// catalog order.
//
// # Favorites
//
// A [FavoriteEntry] records one saved plan: the start and destination text as
// typed, the name of the best-ranked street at save time, and the save time in
// Unix milliseconds. The JSON field names (start, dest, choice, t) match data
// saved by earlier versions of the planner and must not change.
//
// # Geodata
//
// Map framing uses WGS-84 coordinates. Overlay features are OpenStreetMap
// nodes tagged highway=traffic_signals or highway=stop; anything else in an
// overlay response is ignored.
package domain
