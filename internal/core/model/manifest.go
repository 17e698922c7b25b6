package model

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	perr "fraudscore/internal/platform/errors"

	"gopkg.in/yaml.v3"
)

// Manifest lists the artifact files, relative to the manifest's directory
//
//	version: 1
//	model1:
//	  preprocessor: {path: preprocessor1.json, sha256: ...}
//	  model: {path: model1.json}
//	model2:
//	  model: {path: model2.json}
type Manifest struct {
	Version int `yaml:"version"`
	Model1  struct {
		Preprocessor ArtifactRef `yaml:"preprocessor"`
		Model        ArtifactRef `yaml:"model"`
	} `yaml:"model1"`
	Model2 struct {
		Model ArtifactRef `yaml:"model"`
	} `yaml:"model2"`
}

// ArtifactRef points at one file; SHA256 is optional hex
type ArtifactRef struct {
	Path   string `yaml:"path"`
	SHA256 string `yaml:"sha256,omitempty"`
}

const manifestVersion = 1

// Load reads the manifest at manifestPath and every artifact it names
func Load(ctx context.Context, manifestPath string) (*Registry, error) {
	dir, name := filepath.Split(manifestPath)
	if dir == "" {
		dir = "."
	}
	r, err := LoadFS(ctx, os.DirFS(dir), name)
	if err != nil {
		return nil, err
	}
	r.info.Manifest = manifestPath
	return r, nil
}

// LoadFS is Load over an fs.FS; name is the manifest file inside fsys
func LoadFS(ctx context.Context, fsys fs.FS, name string) (*Registry, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeStartup, "model: read manifest %s", name)
	}
	m, err := ParseManifest(raw)
	if err != nil {
		return nil, err
	}
	base := path.Dir(name)

	var (
		specs Specs
		arts  []ArtifactInfo
	)
	steps := []struct {
		ref ArtifactRef
		dst any
	}{
		{m.Model1.Preprocessor, &specs.PreprocessorA},
		{m.Model1.Model, &specs.ClassifierA},
		{m.Model2.Model, &specs.PipelineB},
	}
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeStartup, "model: load cancelled")
		}
		ai, err := readArtifact(fsys, base, s.ref, s.dst)
		if err != nil {
			return nil, err
		}
		arts = append(arts, ai)
	}

	r, err := Compile(specs)
	if err != nil {
		return nil, err
	}
	r.info.Variants[0].Artifacts = arts[:2]
	r.info.Variants[1].Artifacts = arts[2:]
	return r, nil
}

// ParseManifest decodes and checks a manifest; unknown keys are rejected
func ParseManifest(raw []byte) (Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && err != io.EOF {
		return m, perr.Wrap(err, perr.ErrorCodeStartup, "model: parse manifest")
	}
	if m.Version != manifestVersion {
		return m, perr.Startupf("model: manifest version %d, want %d", m.Version, manifestVersion)
	}
	for label, ref := range map[string]ArtifactRef{
		"model1.preprocessor": m.Model1.Preprocessor,
		"model1.model":        m.Model1.Model,
		"model2.model":        m.Model2.Model,
	} {
		if strings.TrimSpace(ref.Path) == "" {
			return m, perr.Startupf("model: manifest %s.path is required", label)
		}
	}
	return m, nil
}

func readArtifact(fsys fs.FS, base string, ref ArtifactRef, dst any) (ArtifactInfo, error) {
	rel := filepath.ToSlash(ref.Path)
	p := path.Join(base, rel)
	if path.IsAbs(rel) || !fs.ValidPath(p) {
		return ArtifactInfo{}, perr.Startupf("model: artifact path %q escapes the manifest directory", ref.Path)
	}
	b, err := fs.ReadFile(fsys, p)
	if err != nil {
		return ArtifactInfo{}, perr.Wrapf(err, perr.ErrorCodeStartup, "model: read artifact %s", ref.Path)
	}
	sum := sha256.Sum256(b)
	got := hex.EncodeToString(sum[:])
	if want := strings.ToLower(strings.TrimSpace(ref.SHA256)); want != "" && want != got {
		return ArtifactInfo{}, perr.Startupf("model: artifact %s checksum %s, manifest says %s", ref.Path, got, want)
	}
	if err := decodeStrict(ref.Path, b, dst); err != nil {
		return ArtifactInfo{}, err
	}
	return ArtifactInfo{Path: ref.Path, SHA256: got, Bytes: len(b)}, nil
}
