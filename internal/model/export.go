package model

// QuizExport is the top-level JSON structure for quiz result export.
type QuizExport struct {
	Topic      string           `json:"topic"`
	Subject    string           `json:"subject"`
	Difficulty Difficulty       `json:"difficulty"`
	ExportedAt string           `json:"exported_at"`
	Correct    int              `json:"correct"`
	Total      int              `json:"total"`
	Percentage float64          `json:"percentage"`
	Questions  []QuestionResult `json:"questions"`
}

// QuestionResult holds per-question data for export.
type QuestionResult struct {
	Text        string   `json:"question"`
	Options     []string `json:"options"`
	YourAnswer  string   `json:"your_answer"`
	Correct     Label    `json:"correct_answer"`
	Explanation string   `json:"explanation"`
	IsCorrect   bool     `json:"is_correct"`
}

// HistoryExport is the top-level JSON structure for history export.
type HistoryExport struct {
	ExportedAt string         `json:"exported_at"`
	Entries    []HistoryEntry `json:"entries"`
}
