// Package noaa builds queries to the NOAA CO-OPS data API for observed water
// levels and decodes its responses. A query covers a short window ending at a
// given instant (see WaterLevelQuery). All times are GMT.
package noaa
