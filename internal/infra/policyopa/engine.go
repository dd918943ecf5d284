package policyopa

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Val-k7/autoserve-hub-sub000/internal/domain"

	"github.com/open-policy-agent/opa/rego"
)

const defaultQuery = "data.autoserve.admission.result"

// Engine evaluates the configured rego bundle against each manifest entry
// before it is reconciled into the catalog. The policy module is expected
// to define data.autoserve.admission.result as {"allow": bool,
// "reasons": [...]}.
type Engine struct {
	query      rego.PreparedEvalQuery
	bundleHash string
}

func NewEngineFromBundlePath(ctx context.Context, bundlePath string) (*Engine, error) {
	bundleHash, err := computeBundleHash(bundlePath)
	if err != nil {
		return nil, err
	}

	r := rego.New(
		rego.Query(defaultQuery),
		rego.StrictBuiltinErrors(true),
		rego.Load([]string{bundlePath}, nil),
	)
	prepared, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, err
	}

	return &Engine{query: prepared, bundleHash: bundleHash}, nil
}

func (e *Engine) BundleHash() string {
	return e.bundleHash
}

func (e *Engine) Evaluate(ctx context.Context, input domain.AdmissionInput) (domain.AdmissionDecision, error) {
	if e == nil {
		return domain.AdmissionDecision{}, errors.New("sync policy engine is nil")
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return domain.AdmissionDecision{}, err
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return domain.AdmissionDecision{}, errors.New("empty sync policy result")
	}
	return decodeDecision(results[0].Expressions[0].Value)
}

func decodeDecision(value any) (domain.AdmissionDecision, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return domain.AdmissionDecision{}, err
	}
	var decision domain.AdmissionDecision
	if err := json.Unmarshal(payload, &decision); err != nil {
		return domain.AdmissionDecision{}, err
	}
	return decision, nil
}

// computeBundleHash digests the rego and data files of the bundle in a
// path-sorted order, so the same bundle content always hashes the same.
func computeBundleHash(bundlePath string) (string, error) {
	info, err := os.Stat(bundlePath)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		data, err := os.ReadFile(bundlePath)
		if err != nil {
			return "", err
		}
		return sha256Hex(data), nil
	}

	type hashedFile struct {
		Path   string `json:"path"`
		SHA256 string `json:"sha256"`
	}
	var files []hashedFile
	fsys := os.DirFS(bundlePath)
	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !isPolicyFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		files = append(files, hashedFile{Path: filepath.ToSlash(path), SHA256: sha256Hex(data)})
		return nil
	})
	if err != nil {
		return "", err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	payload, err := json.Marshal(files)
	if err != nil {
		return "", err
	}
	return sha256Hex(payload), nil
}

func isPolicyFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.HasSuffix(base, ".rego") || base == "data.json"
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
