// Package ingest loads local files into the knowledge store: extension
// filtering, gitignore-aware directory walking, chunking, and stable
// content-addressed document IDs.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/opsmind/opsmind/internal/knowledge"
)

// Store is the storage capability the indexer needs; *knowledge.Store
// satisfies it.
type Store interface {
	Add(ctx context.Context, doc knowledge.Document) error
	Delete(ctx context.Context, docID string) error
}

var defaultSupportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".rst":  true,
	".csv":  true,
	".json": true,
	".yaml": true,
	".yml":  true,
	".xml":  true,
	".html": true,
}

// MaxFileSize guards against accidentally ingesting binaries or huge dumps.
// Large files are chunked, so the bound is generous.
const MaxFileSize = 1 << 20 // 1 MiB

// Result summarizes one ingestion run.
type Result struct {
	FilesAdded   int
	FilesSkipped int
	FilesFailed  int
	ChunksAdded  int
	TotalSize    int64
	Duration     time.Duration
}

// Indexer ingests files into the knowledge store.
type Indexer struct {
	store               Store
	chunker             *Chunker
	supportedExtensions map[string]bool
	logger              *slog.Logger
}

// NewIndexer creates an indexer. extensions overrides the default supported
// set when non-empty.
func NewIndexer(store Store, chunker *Chunker, extensions []string, logger *slog.Logger) *Indexer {
	extMap := make(map[string]bool, len(defaultSupportedExtensions))
	if len(extensions) > 0 {
		for _, ext := range extensions {
			extMap[strings.ToLower(ext)] = true
		}
	} else {
		for k, v := range defaultSupportedExtensions {
			extMap[k] = v
		}
	}
	if chunker == nil {
		chunker = NewChunker(DefaultChunkSize, DefaultChunkOverlap)
	}
	return &Indexer{
		store:               store,
		chunker:             chunker,
		supportedExtensions: extMap,
		logger:              logger,
	}
}

// AddFile ingests a single file, splitting it into chunks.
func (idx *Indexer) AddFile(ctx context.Context, filePath string) (int, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return 0, fmt.Errorf("resolve path: %w", err)
	}

	// os.Root confines reads to the parent directory, blocking path
	// traversal through symlinks.
	root, err := os.OpenRoot(filepath.Dir(absPath))
	if err != nil {
		return 0, fmt.Errorf("open root directory: %w", err)
	}
	defer func() {
		_ = root.Close()
	}()

	fileName := filepath.Base(absPath)
	info, err := root.Stat(fileName)
	if err != nil {
		return 0, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("path is a directory, use AddDirectory instead")
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if !idx.supportedExtensions[ext] {
		return 0, fmt.Errorf("unsupported file type: %s", ext)
	}
	if info.Size() > MaxFileSize {
		return 0, fmt.Errorf("file %s (%d bytes) exceeds ingest limit (%d bytes)", fileName, info.Size(), MaxFileSize)
	}

	content, err := root.ReadFile(fileName)
	if err != nil {
		return 0, fmt.Errorf("read file: %w", err)
	}

	added, err := idx.addContent(ctx, absPath, string(content), info.Size())
	if err != nil {
		return 0, err
	}
	idx.logger.Info("indexed file", "path", absPath, "chunks", added)
	return added, nil
}

// AddDirectory recursively ingests every supported file under dirPath,
// honoring a .gitignore at the directory root if present.
func (idx *Indexer) AddDirectory(ctx context.Context, dirPath string) (*Result, error) {
	start := time.Now()
	result := &Result{}

	absDir, err := filepath.Abs(dirPath)
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}

	root, err := os.OpenRoot(absDir)
	if err != nil {
		return nil, fmt.Errorf("open root directory: %w", err)
	}
	defer func() {
		_ = root.Close()
	}()

	var gitIgnore *ignore.GitIgnore
	if _, err := os.Stat(filepath.Join(absDir, ".gitignore")); err == nil {
		// Malformed gitignore is not fatal, the walk just stops filtering.
		gitIgnore, _ = ignore.CompileIgnoreFile(filepath.Join(absDir, ".gitignore"))
	}

	err = filepath.Walk(absDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			result.FilesFailed++
			return nil
		}

		relPath, err := filepath.Rel(absDir, path)
		if err != nil {
			result.FilesFailed++
			return nil
		}

		if gitIgnore != nil && gitIgnore.MatchesPath(relPath) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			result.FilesSkipped++
			return nil
		}
		if info.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !idx.supportedExtensions[ext] || info.Size() > MaxFileSize {
			result.FilesSkipped++
			return nil
		}

		content, err := root.ReadFile(relPath)
		if err != nil {
			result.FilesFailed++
			return nil
		}

		added, err := idx.addContent(ctx, path, string(content), info.Size())
		if err != nil {
			idx.logger.Warn("failed to index file", "path", path, "error", err)
			result.FilesFailed++
			return nil
		}

		result.FilesAdded++
		result.ChunksAdded += added
		result.TotalSize += info.Size()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	result.Duration = time.Since(start)
	idx.logger.Info("directory ingest complete",
		"path", absDir,
		"files_added", result.FilesAdded,
		"chunks", result.ChunksAdded,
		"skipped", result.FilesSkipped,
		"failed", result.FilesFailed)
	return result, nil
}

// RemoveDocument removes one stored chunk by ID.
func (idx *Indexer) RemoveDocument(ctx context.Context, docID string) error {
	return idx.store.Delete(ctx, docID)
}

func (idx *Indexer) addContent(ctx context.Context, absPath, content string, size int64) (int, error) {
	chunks := idx.chunker.Split(content)
	fileID := generateFileID(absPath)
	now := time.Now()

	for i, chunk := range chunks {
		doc := knowledge.Document{
			ID:      fmt.Sprintf("%s_%d", fileID, i),
			Content: chunk,
			Metadata: map[string]string{
				knowledge.MetaSourceType: knowledge.SourceTypeFile,
				"file_path":              absPath,
				"file_name":              filepath.Base(absPath),
				"file_ext":               strings.ToLower(filepath.Ext(absPath)),
				"file_size":              fmt.Sprintf("%d", size),
				"chunk":                  fmt.Sprintf("%d", i),
				"indexed_at":             now.Format(time.RFC3339),
			},
			CreatedAt: now,
		}
		if err := idx.store.Add(ctx, doc); err != nil {
			return i, fmt.Errorf("add chunk %d: %w", i, err)
		}
	}
	return len(chunks), nil
}

// generateFileID derives a stable ID from the absolute file path.
func generateFileID(absPath string) string {
	hash := sha256.Sum256([]byte(absPath))
	return "file_" + hex.EncodeToString(hash[:16])
}
