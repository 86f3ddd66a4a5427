package protocol

func NewDisplayMessage(text, color string) Message {
	return Message{Type: TypeDisplayMessage, Data: DisplayMessage{MessageText: text, Color: color}}
}

func NewPlayerDisconnected(id string) Message {
	return Message{Type: TypePlayerDisconnected, Data: PlayerDisconnected{ID: id}}
}

func NewIdleKicked() Message {
	return Message{Type: TypeIdleKicked, Data: IdleKicked{}}
}

func NewLevel(level LevelData, expiresIn int64) Message {
	return Message{Type: TypeLevel, Data: Level{Level: level, ExpiresIn: expiresIn}}
}

func NewHurryUp(expiresIn int64) Message {
	return Message{Type: TypeHurryUp, Data: HurryUp{ExpiresIn: expiresIn}}
}

func NewSync(players []SyncPlayer, time int64) Message {
	return Message{Type: TypeSync, Data: Sync{Players: players, Time: time}}
}

func NewLevelOver(ranked []RoundRankedPlayer, expTime int64, leaderID string) Message {
	return Message{Type: TypeLevelOver, Data: LevelOver{RoundRankedPlayers: ranked, ExpTime: expTime, LeaderID: leaderID}}
}

func NewMatchOver(nextMatchIn int64, ranked []MatchRankedPlayer) Message {
	return Message{Type: TypeMatchOver, Data: MatchOver{NextMatchIn: nextMatchIn, MatchRankedPlayers: ranked}}
}

func NewInitial(initial Initial) Message {
	return Message{Type: TypeInitial, Data: initial}
}

func NewPlayerConnected(id, name, color string) Message {
	return Message{Type: TypePlayerConnected, Data: PlayerConnected{ID: id, Name: name, Color: color}}
}

func NewPlayerSwing(id string, vec [2]float64) Message {
	return Message{Type: TypePlayerSwing, Data: PlayerSwing{ID: id, Vec: vec}}
}
