// Package services implements the [Source] tiers that supply raw villager data.
//
// # Tiers
//
//   - [BundledSource] : the dataset embedded at build time, or a file named in config ("real")
//   - [APISource] : the public ACNH API, legacy nested schema ("api")
//   - [SampleSource] : six hand-picked villagers, always available ("sample")
//
// Sources return raw JSON elements only. Detecting the schema, normalising and
// validating happen in the tasks package so every tier is treated the same.
//
// # Error Handling
//
// Sources use sentinel errors from the shared package:
//   - [shared.ErrSourceUnavailable] : the configured dataset file cannot be read
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//   - [shared.ErrTimeout] : the API did not answer in time
//   - [shared.ErrInvalidDataset] : the payload is not a JSON array or object
package services
