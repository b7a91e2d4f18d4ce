package passage

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mport/typeduel/internal/dependencies/random"
	"github.com/mport/typeduel/internal/model"
	"github.com/mport/typeduel/internal/storage"
)

// Service provides the typing passages players race through
type Service struct {
	storage storage.Storage
	random  random.Random
}

// New creates a new passage service
func New(store storage.Storage, rnd random.Random) *Service {
	return &Service{
		storage: store,
		random:  rnd,
	}
}

// Get retrieves a passage by ID
func (s *Service) Get(ctx context.Context, id model.PassageID) (*model.Passage, error) {
	return s.storage.GetPassage(ctx, id)
}

// Random picks a passage uniformly at random, for the start of a race
func (s *Service) Random(ctx context.Context) (*model.Passage, error) {
	passages, err := s.storage.ListPassages(ctx)
	if err != nil {
		return nil, err
	}
	if len(passages) == 0 {
		return nil, model.ErrNoPassages
	}
	return passages[s.random.Intn(len(passages))], nil
}

// LoadFromFile loads passages from a file. Passages are separated by blank
// lines; a trailing line starting with "-- " is treated as the source.
func (s *Service) LoadFromFile(ctx context.Context, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var blocks []string
	var current []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if len(current) > 0 {
				blocks = append(blocks, strings.Join(current, " "))
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	if len(current) > 0 {
		blocks = append(blocks, strings.Join(current, " "))
	}

	for i, block := range blocks {
		text, source := splitSource(block)
		passage := &model.Passage{
			ID:     model.PassageID(fmt.Sprintf("passage-%03d", i+1)),
			Text:   text,
			Source: source,
		}
		if err := s.storage.SavePassage(ctx, passage); err != nil {
			return i, err
		}
	}
	return len(blocks), nil
}

// Seed stores the bundled default passages if the store holds none, so a
// fresh server can always hand out a race text
func (s *Service) Seed(ctx context.Context) error {
	passages, err := s.storage.ListPassages(ctx)
	if err != nil {
		return err
	}
	if len(passages) > 0 {
		return nil
	}

	for i, text := range defaultPassages {
		passage := &model.Passage{
			ID:   model.PassageID(fmt.Sprintf("passage-%03d", i+1)),
			Text: text,
		}
		if err := s.storage.SavePassage(ctx, passage); err != nil {
			return err
		}
	}
	return nil
}

func splitSource(block string) (string, string) {
	if idx := strings.LastIndex(block, " -- "); idx > 0 {
		return strings.TrimSpace(block[:idx]), strings.TrimSpace(block[idx+4:])
	}
	return block, ""
}

var defaultPassages = []string{
	"The quick brown fox jumps over the lazy dog while the cat watches from the windowsill, unimpressed by the whole performance.",
	"Typing fast is less about speed and more about rhythm; the fingers learn the shapes of words long before the mind catches up.",
	"A river cuts through rock not because of its power, but because of its persistence, wearing a path one grain at a time.",
	"The lighthouse keeper climbed the spiral stairs every evening at dusk, counting each of the one hundred and twelve steps out of habit.",
	"Somewhere between the first keystroke and the last period, every writer discovers that the delete key is their most honest critic.",
}
