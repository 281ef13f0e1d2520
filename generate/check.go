package generate

import (
	"bytes"
	"os"

	"github.com/teranos/itemgen/errors"
	"github.com/teranos/itemgen/logger"
)

// Write stores the generated file.
func Write(result *Result) error {
	if err := os.WriteFile(result.OutputPath, result.Source, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", result.OutputPath)
	}
	logger.Infow("Wrote generated file",
		logger.FieldPath, result.OutputPath,
		logger.FieldDecls, result.Registry.Len(),
		logger.FieldVariants, len(result.Registry.Variants))
	return nil
}

// Check compares the generated file on disk with fresh output. It returns
// an error marked errors.ErrStale when the file is missing or differs.
func Check(result *Result) error {
	different, err := fileIsDifferent(result.OutputPath, result.Source)
	if err != nil {
		return err
	}
	if different {
		return errors.WithHint(
			errors.Mark(errors.Newf("%s is out of date", result.OutputPath), errors.ErrStale),
			"run go generate (or itemgen) and commit the result")
	}
	return nil
}

// CheckResult holds the result of checking several targets.
type CheckResult struct {
	UpToDate []string
	// Stale lists files whose content differs
	Stale []string
	// Missing lists files that do not exist yet
	Missing []string
}

// OK reports whether every file is up to date.
func (c *CheckResult) OK() bool {
	return len(c.Stale) == 0 && len(c.Missing) == 0
}

// CheckAll checks every result and sorts the outcome.
func CheckAll(results []*Result) (*CheckResult, error) {
	out := &CheckResult{}
	for _, r := range results {
		if _, err := os.Stat(r.OutputPath); os.IsNotExist(err) {
			out.Missing = append(out.Missing, r.OutputPath)
			continue
		}
		err := Check(r)
		switch {
		case err == nil:
			out.UpToDate = append(out.UpToDate, r.OutputPath)
		case errors.IsStale(err):
			out.Stale = append(out.Stale, r.OutputPath)
		default:
			return nil, err
		}
	}
	return out, nil
}

// fileIsDifferent compares a file with want. A missing file differs.
func fileIsDifferent(path string, want []byte) (bool, error) {
	got, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", path)
	}
	return !bytes.Equal(got, want), nil
}
