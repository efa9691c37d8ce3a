package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nomadcxx/tidysink/internal/ledger"
	"github.com/Nomadcxx/tidysink/internal/scanner"
)

// Mover relocates files, resolves name collisions and logs each real move
type Mover struct {
	ledger    *ledger.Ledger
	processed int
}

// NewMover creates a mover that logs to l. l may be nil.
func NewMover(l *ledger.Ledger) *Mover {
	return &Mover{ledger: l}
}

// Processed returns the number of real moves performed
func (m *Mover) Processed() int {
	return m.processed
}

// Move renames src to dst. In dry run nothing is touched and dst is
// returned as-is. Otherwise parent directories are created, a free name is
// picked (stem_1.ext, stem_2.ext, ...) and the move is logged.
//
// Directories created before a failed rename are left in place.
func (m *Mover) Move(src, dst string, dryRun bool) (string, error) {
	if dryRun {
		return dst, nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filepath.Dir(dst), err)
	}

	final := UniquePath(dst)

	if err := os.Rename(src, final); err != nil {
		return "", fmt.Errorf("failed to move %s: %w", filepath.Base(src), err)
	}

	if m.ledger != nil {
		m.ledger.Append(ledger.OpMove, src, final)
	}
	m.processed++

	return final, nil
}

// UniquePath returns dst, or the first stem_N.ext sibling that does not exist
func UniquePath(dst string) string {
	if !exists(dst) {
		return dst
	}

	dir := filepath.Dir(dst)
	base := filepath.Base(dst)
	ext := scanner.Suffix(base)
	stem := strings.TrimSuffix(base, ext)

	for counter := 1; ; counter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
		if !exists(candidate) {
			return candidate
		}
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
