package domain

type LevelEntry struct {
	Level      int   `json:"level"`
	Experience int64 `json:"experience"`
}
