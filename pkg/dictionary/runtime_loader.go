package dictionary

import (
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
)

// RuntimeLoader grows or shrinks a live dictionary one chunk file at a time.
// Chunks are loaded in ID order and unloaded from the highest loaded ID down.
type RuntimeLoader struct {
	dict   Dictionary
	loader *Loader
	dir    string

	mu     sync.Mutex
	loaded []int
	// words each loaded chunk actually inserted; unloading deletes exactly these
	owned map[int][]string
}

// DictionarySizeOption represents a dictionary size option
type DictionarySizeOption struct {
	ChunkCount int    `msgpack:"chunk_count"`
	WordCount  int    `msgpack:"word_count"`
	SizeLabel  string `msgpack:"size_label"`
}

// NewRuntimeLoader manages the chunk files of dir on top of dict.
// Words already in dict are never touched by unloading.
func NewRuntimeLoader(dict Dictionary, loader *Loader, dir string) *RuntimeLoader {
	return &RuntimeLoader{
		dict:   dict,
		loader: loader,
		dir:    dir,
		owned:  make(map[int][]string),
	}
}

// GetAvailableChunkCount returns the total number of available chunk files
func (rl *RuntimeLoader) GetAvailableChunkCount() (int, error) {
	chunks, err := rl.loader.GetAvailableChunks(rl.dir)
	if err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// GetMaxWordsAvailable returns the maximum number of words that can be loaded
func (rl *RuntimeLoader) GetMaxWordsAvailable() (int, error) {
	chunks, err := rl.loader.GetAvailableChunks(rl.dir)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, c := range chunks {
		total += c.WordCount
	}
	return total, nil
}

// CurrentChunks returns the number of loaded chunks.
func (rl *RuntimeLoader) CurrentChunks() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.loaded)
}

// SetDictionarySize loads or unloads chunks until target chunks are loaded.
// A target above the available count loads everything there is.
func (rl *RuntimeLoader) SetDictionarySize(target int) error {
	if target < 1 {
		return fmt.Errorf("minimum dictionary size is 1 chunk, got %d", target)
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	log.Debugf("Setting dictionary size: current=%d chunks, target=%d chunks", len(rl.loaded), target)
	switch {
	case target > len(rl.loaded):
		return rl.loadAdditionalChunks(target - len(rl.loaded))
	case target < len(rl.loaded):
		rl.unloadExcessChunks(len(rl.loaded) - target)
	}
	return nil
}

// loadAdditionalChunks loads up to n chunks that are not loaded yet, lowest ID first.
func (rl *RuntimeLoader) loadAdditionalChunks(n int) error {
	chunks, err := rl.loader.GetAvailableChunks(rl.dir)
	if err != nil {
		return err
	}

	loadedCount := 0
	for _, chunk := range chunks {
		if loadedCount >= n {
			break
		}
		if slices.Contains(rl.loaded, chunk.ChunkID) {
			continue
		}

		pairs, _, err := rl.loader.LoadFile(chunk.Filename)
		if err != nil {
			log.Warnf("Failed to load chunk %d: %v", chunk.ChunkID, err)
			continue
		}
		var words []string
		for _, p := range pairs {
			ok, err := rl.dict.Insert(p.Word, p.Frequency)
			if err != nil {
				log.Warnf("Skipping %q from chunk %d: %v", p.Word, chunk.ChunkID, err)
				continue
			}
			if ok {
				words = append(words, p.Word)
			}
		}
		rl.owned[chunk.ChunkID] = words
		rl.loaded = append(rl.loaded, chunk.ChunkID)
		loadedCount++
	}
	slices.Sort(rl.loaded)

	log.Debugf("Loaded %d additional chunks", loadedCount)
	if loadedCount == 0 && n > 0 {
		return fmt.Errorf("no more chunks to load in %s", rl.dir)
	}
	return nil
}

// unloadExcessChunks unloads n chunks from the highest IDs first.
func (rl *RuntimeLoader) unloadExcessChunks(n int) {
	for range n {
		last := len(rl.loaded) - 1
		if last < 0 {
			return
		}
		id := rl.loaded[last]
		removed := 0
		for _, w := range rl.owned[id] {
			if ok, _ := rl.dict.Delete(w); ok {
				removed++
			}
		}
		delete(rl.owned, id)
		rl.loaded = rl.loaded[:last]
		log.Debugf("Unloaded chunk %d (%d words)", id, removed)
	}
}

// GetDictionarySizeOptions returns the available dictionary size options
// Returns array of chunk counts and their corresponding word counts
func (rl *RuntimeLoader) GetDictionarySizeOptions() ([]DictionarySizeOption, error) {
	chunks, err := rl.loader.GetAvailableChunks(rl.dir)
	if err != nil {
		return nil, err
	}

	options := make([]DictionarySizeOption, 0, len(chunks))
	totalWords := 0
	for i, chunk := range chunks {
		totalWords += chunk.WordCount
		options = append(options, DictionarySizeOption{
			ChunkCount: i + 1,
			WordCount:  totalWords,
			SizeLabel:  fmt.Sprintf("%dK words", totalWords/1000),
		})
	}
	return options, nil
}
