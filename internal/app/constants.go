package app

// MinPlayersToStartMatch is how many players must be present before the first
// match of a session (or the next one after a match over) starts.
const MinPlayersToStartMatch = 1

// PlayerColors is cycled through as players join.
var PlayerColors = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#fabebe",
}
