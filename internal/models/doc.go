// Package models defines the villager catalog's data shapes and user state types.
//
// The package contains two categories of types:
//
// 1. Villager shapes: the two JSON layouts villager data arrives in
//   - [Villager] : the flat snake_case schema used by the bundled dataset and sample data
//   - [LegacyVillager] : the nested ACNH API v1a layout ("name-USen", "birthday-string", "catch-phrase")
//   - [Record] : a loaded villager carrying both shapes, read through the villagers accessor
//
// 2. User state: what the collection and theme containers persist
//   - [CollectionEntry] : one tracked villager with its [CollectionStatus]
//   - [Theme] : light or dark
//
// Enumerations ([Personality], [Gender], [Source], [Format], [CollectionFilter]) carry
// their own parse helpers so that CLI flags, HTTP query parameters and stored values
// share one validation path.
package models
