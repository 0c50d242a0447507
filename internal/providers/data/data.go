// Package data embeds the static tables served when live offers are unavailable.
package data

import _ "embed"

//go:embed fallback_schedule.json
var FallbackSchedule []byte
