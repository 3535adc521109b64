// Package villagers reads and reshapes villager records.
//
// Villager data arrives in two JSON layouts: the nested ACNH API v1a layout
// ([models.LegacyVillager]) and the flat schema used by the bundled dataset
// ([models.Villager]). The accessor functions ([Name], [Species], [Get], ...)
// resolve a logical field from whichever layout a [models.Record] carries, so
// callers never branch on the layout themselves.
//
// The adapter half of the package converts between the layouts
// ([LegacyToNew], [NewToLegacy]), validates records ([Validate]) and turns
// raw JSON into records ([SplitDataset], [Normalize], [Compatible]).
package villagers
