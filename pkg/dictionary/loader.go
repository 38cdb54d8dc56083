package dictionary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bastiangx/wordtree/pkg/wordfreq"
	"github.com/charmbracelet/log"
	"golang.org/x/text/unicode/norm"
)

// ErrNoCorpus is returned by LoadDir when a directory holds no corpus files.
var ErrNoCorpus = errors.New("no corpus files found")

// Loader reads (word, frequency) pairs from corpus files.
type Loader struct {
	maxWords      int
	maxChunkWords int
}

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ChunkID   int
	Filename  string
	WordCount int
}

// LoaderStats reports what the last load did.
type LoaderStats struct {
	Files   int
	Words   int
	Skipped int
}

// NewLoader creates a loader. maxWords caps the number of pairs returned (0 for all);
// maxChunkWords rejects chunk files whose header declares more words (0 for no limit).
func NewLoader(maxWords, maxChunkWords int) *Loader {
	return &Loader{
		maxWords:      maxWords,
		maxChunkWords: maxChunkWords,
	}
}

// Load reads a corpus file or every corpus file of a directory.
func (l *Loader) Load(path string) ([]wordfreq.Pair, LoaderStats, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, LoaderStats{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return l.LoadDir(path)
	}
	pairs, skipped, err := l.LoadFile(path)
	if err != nil {
		return nil, LoaderStats{}, err
	}
	return pairs, LoaderStats{Files: 1, Words: len(pairs), Skipped: skipped}, nil
}

// LoadFile reads one corpus file, choosing the reader from its format.
// It also returns the number of malformed entries that were skipped.
func (l *Loader) LoadFile(filename string) ([]wordfreq.Pair, int, error) {
	format, err := DetectFileFormat(filename, l.maxChunkWords)
	if err != nil {
		return nil, 0, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open corpus file %s: %w", filename, err)
	}
	defer file.Close()

	var pairs []wordfreq.Pair
	var skipped int
	switch format {
	case FormatChunk:
		pairs, err = ReadChunk(bufio.NewReader(file))
	case FormatText:
		pairs, skipped, err = ReadText(file)
	}
	if err != nil {
		return nil, skipped, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	log.Debugf("Loaded %d words from %s (%s)", len(pairs), filename, format)
	return l.limit(pairs), skipped, nil
}

// LoadDir reads the chunk files of dir in chunk ID order, or its text files in name
// order when it has no chunks, stopping once maxWords pairs are loaded.
func (l *Loader) LoadDir(dir string) ([]wordfreq.Pair, LoaderStats, error) {
	chunks, err := l.GetAvailableChunks(dir)
	if err != nil {
		return nil, LoaderStats{}, err
	}
	files := make([]string, 0, len(chunks))
	for _, c := range chunks {
		files = append(files, c.Filename)
	}
	if len(files) == 0 {
		texts, err := filepath.Glob(filepath.Join(dir, "*.txt"))
		if err != nil {
			return nil, LoaderStats{}, fmt.Errorf("failed to scan for text files: %w", err)
		}
		sort.Strings(texts)
		files = texts
	}
	if len(files) == 0 {
		return nil, LoaderStats{}, fmt.Errorf("%w in %s", ErrNoCorpus, dir)
	}

	var stats LoaderStats
	var pairs []wordfreq.Pair
	for _, file := range files {
		if l.maxWords > 0 && len(pairs) >= l.maxWords {
			break
		}
		loaded, skipped, err := l.LoadFile(file)
		if err != nil {
			return nil, stats, err
		}
		pairs = append(pairs, loaded...)
		stats.Files++
		stats.Skipped += skipped
	}

	pairs = l.limit(pairs)
	stats.Words = len(pairs)
	log.Debugf("Loaded %d words from %d files in %s", stats.Words, stats.Files, dir)
	return pairs, stats, nil
}

func (l *Loader) limit(pairs []wordfreq.Pair) []wordfreq.Pair {
	if l.maxWords > 0 && len(pairs) > l.maxWords {
		return pairs[:l.maxWords]
	}
	return pairs
}

// GetAvailableChunks scans dir for chunk files
func (l *Loader) GetAvailableChunks(dir string) ([]ChunkInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "dict_*.bin"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		// dict_0001.bin -> 1
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		chunkID, err := strconv.Atoi(idStr)
		if err != nil {
			log.Warnf("Ignoring chunk file with bad ID: %s", file)
			continue
		}
		wordCount, err := getChunkWordCount(file)
		if err != nil {
			log.Warnf("Failed to get word count for chunk %s: %v", file, err)
		}
		chunks = append(chunks, ChunkInfo{
			ChunkID:   chunkID,
			Filename:  file,
			WordCount: wordCount,
		})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkID < chunks[j].ChunkID
	})
	return chunks, nil
}

// getChunkWordCount reads the word count from a chunk file's header
func getChunkWordCount(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return 0, err
	}
	return int(wordCount), nil
}

// ReadChunk decodes a chunk: an int32 word count followed by entries of
// uint16 word length, word bytes and uint16 rank, all little endian.
// Rank 1 is the most frequent word; it becomes the highest score.
func ReadChunk(r io.Reader) ([]wordfreq.Pair, error) {
	var totalEntries int32
	if err := binary.Read(r, binary.LittleEndian, &totalEntries); err != nil {
		return nil, fmt.Errorf("failed to read chunk header: %w", err)
	}
	if totalEntries < 0 {
		return nil, fmt.Errorf("invalid word count %d", totalEntries)
	}

	pairs := make([]wordfreq.Pair, 0, min(int(totalEntries), 4096))
	for len(pairs) < int(totalEntries) {
		var wordLen uint16
		if err := binary.Read(r, binary.LittleEndian, &wordLen); err != nil {
			if err == io.EOF {
				log.Warnf("Chunk ended after %d of %d words", len(pairs), totalEntries)
				break
			}
			return nil, fmt.Errorf("failed to read word length: %w", err)
		}

		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(r, wordBytes); err != nil {
			return nil, fmt.Errorf("failed to read word: %w", err)
		}

		var rank uint16
		if err := binary.Read(r, binary.LittleEndian, &rank); err != nil {
			return nil, fmt.Errorf("failed to read rank: %w", err)
		}

		// rank 1 -> 65535, rank 2 -> 65534 ...
		score := 65536 - int(rank)
		pairs = append(pairs, wordfreq.Pair{Word: norm.NFC.String(string(wordBytes)), Frequency: score})
	}
	return pairs, nil
}

// ReadText decodes "word frequency" lines. Blank lines and lines starting with '#'
// are ignored; malformed lines are logged and counted as skipped.
func ReadText(r io.Reader) ([]wordfreq.Pair, int, error) {
	var pairs []wordfreq.Pair
	skipped := 0

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			log.Warnf("Skipping line %d: expected 'word frequency', got %q", lineNo, line)
			skipped++
			continue
		}
		freq, err := strconv.Atoi(fields[1])
		if err != nil || wordfreq.Validate(fields[0], freq) != nil {
			log.Warnf("Skipping line %d: invalid entry %q", lineNo, line)
			skipped++
			continue
		}
		pairs = append(pairs, wordfreq.Pair{Word: norm.NFC.String(fields[0]), Frequency: freq})
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, err
	}
	return pairs, skipped, nil
}
