package services

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// SuggestionService serves random feed prompts from a JSON file
type SuggestionService struct {
	path string
}

// NewSuggestionService creates a SuggestionService reading from path
func NewSuggestionService(path string) *SuggestionService {
	return &SuggestionService{path: path}
}

type suggestionFile struct {
	Questions []string `json:"questions"`
}

// Suggest returns three random prompts joined with "||"
func (s *SuggestionService) Suggest() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to read suggestions file: %w", err)
	}

	var file suggestionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return "", fmt.Errorf("failed to parse suggestions file: %w", err)
	}
	if len(file.Questions) < 3 {
		return "", fmt.Errorf("not enough questions in the file")
	}

	shuffled := make([]string, len(file.Questions))
	copy(shuffled, file.Questions)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return strings.Join(shuffled[:3], "||"), nil
}
