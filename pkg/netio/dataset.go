package netio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/evisynth/nmakit/pkg/errors"
	"github.com/evisynth/nmakit/pkg/nma"
)

// ComparisonSet is the on-disk form of a comparison dataset.
type ComparisonSet struct {
	Comparisons []nma.TreatmentComparison `json:"comparisons"`
}

// EffectSet is the on-disk form of an effect dataset.
type EffectSet struct {
	Effects []nma.TreatmentEffect `json:"effects"`
}

// ReadComparisons decodes a JSON comparison dataset from r.
func ReadComparisons(r io.Reader) ([]nma.TreatmentComparison, error) {
	var set ComparisonSet
	if err := json.NewDecoder(r).Decode(&set); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode comparison dataset")
	}
	return set.Comparisons, nil
}

// ReadComparisonsFile reads a comparison dataset from a JSON or CSV
// file, chosen by extension (.csv means CSV, anything else JSON).
func ReadComparisonsFile(path string) ([]nma.TreatmentComparison, error) {
	f, err := openDataset(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		return ReadComparisonsCSV(f)
	}
	return ReadComparisons(f)
}

// ReadEffects decodes a JSON effect dataset from r.
func ReadEffects(r io.Reader) ([]nma.TreatmentEffect, error) {
	var set EffectSet
	if err := json.NewDecoder(r).Decode(&set); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode effect dataset")
	}
	return set.Effects, nil
}

// ReadEffectsFile reads a JSON effect dataset from a file.
func ReadEffectsFile(path string) ([]nma.TreatmentEffect, error) {
	f, err := openDataset(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadEffects(f)
}

func openDataset(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "dataset not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	return f, nil
}

// CSV column names recognized by ReadComparisonsCSV. study_id,
// treatment_a and treatment_b are required; the rest are optional.
const (
	colStudyID       = "study_id"
	colTreatmentA    = "treatment_a"
	colTreatmentB    = "treatment_b"
	colNA            = "n_a"
	colNB            = "n_b"
	colEffectSize    = "effect_size"
	colStandardError = "standard_error"
)

// ReadComparisonsCSV decodes comparisons from CSV with a header row.
// Columns are matched by header name, so order is free and unknown
// columns are ignored.
func ReadComparisonsCSV(r io.Reader) ([]nma.TreatmentComparison, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV header")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colStudyID, colTreatmentA, colTreatmentB} {
		if _, ok := cols[required]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "CSV header missing column %q", required)
		}
	}

	var comparisons []nma.TreatmentComparison
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV line %d", line)
		}

		c := nma.TreatmentComparison{
			StudyID:    field(record, cols, colStudyID),
			TreatmentA: field(record, cols, colTreatmentA),
			TreatmentB: field(record, cols, colTreatmentB),
		}
		if c.NA, err = intField(record, cols, colNA, line); err != nil {
			return nil, err
		}
		if c.NB, err = intField(record, cols, colNB, line); err != nil {
			return nil, err
		}
		if c.EffectSize, err = floatField(record, cols, colEffectSize, line); err != nil {
			return nil, err
		}
		if c.StandardError, err = floatField(record, cols, colStandardError, line); err != nil {
			return nil, err
		}
		comparisons = append(comparisons, c)
	}
	return comparisons, nil
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func intField(record []string, cols map[string]int, name string, line int) (int, error) {
	raw := field(record, cols, name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "CSV line %d: column %q: %q is not an integer", line, name, raw)
	}
	return v, nil
}

func floatField(record []string, cols map[string]int, name string, line int) (float64, error) {
	raw := field(record, cols, name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "CSV line %d: column %q: %q is not a number", line, name, raw)
	}
	return v, nil
}

// MarshalAssessment converts an assessment record to indented JSON
// bytes.
func MarshalAssessment(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode assessment")
	}
	return append(data, '\n'), nil
}

// WriteAssessment writes an assessment record as indented JSON to w.
func WriteAssessment(v any, w io.Writer) error {
	data, err := MarshalAssessment(v)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// WriteAssessmentFile writes an assessment record to a JSON file.
// The file is created with 0644 permissions.
func WriteAssessmentFile(v any, path string) error {
	data, err := MarshalAssessment(v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
