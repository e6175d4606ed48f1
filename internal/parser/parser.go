package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"

	"supportbot/internal/models"
)

type ParserConfig struct {
	ChunkSize    int
	ChunkOverlap int
}

const (
	defaultChunkSize    = 1000 // bytes
	defaultChunkOverlap = 200  // bytes
)

func NewParserConfig(chunkSize, chunkOverlap int) *ParserConfig {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
		chunkOverlap = defaultChunkOverlap
	}
	return &ParserConfig{ChunkSize: chunkSize, ChunkOverlap: chunkOverlap}
}

// IsPDF reports whether name ends in lowercase ".pdf". Other spellings such
// as "Manual.PDF" are not ingested.
func IsPDF(name string) bool {
	return filepath.Ext(name) == ".pdf"
}

// LoadDirectory parses every PDF directly under dir, in name order. Other
// files and sub-directories are ignored. The first file that fails to parse
// aborts the whole load.
func (p *ParserConfig) LoadDirectory(dir string) ([]models.Passage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.NewError(models.KindInputMissing, "load "+dir, err)
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var passages []models.Passage
	files := 0
	for _, entry := range entries {
		if entry.IsDir() || !IsPDF(entry.Name()) {
			continue
		}
		filePath := filepath.Join(dir, entry.Name())
		filePassages, err := p.ParsePDF(filePath)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("file", entry.Name()).Int("passages", len(filePassages)).Msg("Parsed PDF")
		passages = append(passages, filePassages...)
		files++
	}

	log.Info().Int("files", files).Int("passages", len(passages)).Msgf("Loaded documents from %s", dir)
	return passages, nil
}

// ParsePDF extracts passages page by page, tagging each with the file's base
// name and 1-based page number.
func (p *ParserConfig) ParsePDF(filePath string) (passages []models.Passage, err error) {
	source := filepath.Base(filePath)
	op := "parse " + source

	// the pdf package panics on some malformed content streams
	defer func() {
		if r := recover(); r != nil {
			passages = nil
			err = models.NewError(models.KindParse, op, fmt.Errorf("%v", r))
		}
	}()

	f, err := os.Open(filePath)
	if err != nil {
		return nil, models.NewError(models.KindInputMissing, op, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, models.NewError(models.KindParse, op, err)
	}

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, models.NewError(models.KindParse, fmt.Sprintf("%s page %d", op, i), err)
		}
		passages = append(passages, p.getChunks(source, pageText, i)...)
	}
	return passages, nil
}

// chunk content into chunks with maxChars and overlapChars
func chunkContent(content string, maxChars, overlapChars int) []string {
	if maxChars <= 0 {
		return nil
	}
	if overlapChars < 0 {
		overlapChars = 0
	}
	if overlapChars >= maxChars {
		overlapChars = maxChars / 2
	}

	content = strings.TrimSpace(content)
	contentLen := len(content)
	if contentLen == 0 {
		return nil
	}
	if contentLen <= maxChars {
		return []string{content}
	}

	var chunks []string
	start := 0
	for start < contentLen {
		end := min(start+maxChars, contentLen)

		// prefer breaking on a space, newline or period within the last 10% of the chunk
		if end < contentLen {
			lookBack := min(maxChars/10, end-start)
			for i := end - 1; i >= end-lookBack && i > start; i-- {
				if content[i] == ' ' || content[i] == '\n' || content[i] == '.' {
					end = i + 1
					break
				}
			}
		}

		chunk := strings.TrimSpace(content[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= contentLen {
			break
		}

		next := end - overlapChars
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// get chunks from page content, tagged with source and page number
func (p *ParserConfig) getChunks(source, content string, pageNumber int) []models.Passage {
	var passages []models.Passage
	for i, chunkString := range chunkContent(content, p.ChunkSize, p.ChunkOverlap) {
		passages = append(passages, models.Passage{
			ID:      PassageID(source, pageNumber, i+1),
			Content: chunkString,
			Source:  source,
			Page:    pageNumber,
			ChunkID: i + 1,
		})
	}
	return passages
}

func PassageID(source string, page, chunk int) string {
	return fmt.Sprintf("%s-p%d-c%d", source, page, chunk)
}
