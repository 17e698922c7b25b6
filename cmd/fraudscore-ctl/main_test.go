package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"fraudscore/internal/platform/testkit"
)

func runCtl(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	ctx := testkit.Ctx(t, 30*time.Second)
	if err := newApp(&out).Run(ctx, append([]string{"fraudscore-ctl"}, args...)); err != nil {
		t.Fatalf("run %v: %v\noutput: %s", args, err, out.String())
	}
	return out.String()
}

func TestModelsCheck_PrintsBothVariants(t *testing.T) {
	out := runCtl(t, "models", "check", "--manifest", "../../models/manifest.yaml")
	testkit.MustContain(t, out, `"model1"`)
	testkit.MustContain(t, out, `"model2"`)
	testkit.MustContain(t, out, `"sha256"`)
}

func TestModelsCheck_YAML(t *testing.T) {
	out := runCtl(t, "--format", "yaml", "models", "check", "--manifest", "../../models/manifest.yaml")
	testkit.MustContain(t, out, "variant: model1")
}

func TestHashThenVerify(t *testing.T) {
	var h hashOutput
	if err := json.Unmarshal([]byte(runCtl(t, "hash", "--password", "s3cret", "--ln", "10")), &h); err != nil {
		t.Fatalf("decode hash output: %v", err)
	}
	if !strings.HasPrefix(h.Hashed, "$scrypt$ln=10,r=8,p=1$") {
		t.Fatalf("unexpected hash format %q", h.Hashed)
	}

	var v verifyOutput
	if err := json.Unmarshal([]byte(runCtl(t, "verify", "--password", "s3cret", "--hashed", h.Hashed)), &v); err != nil {
		t.Fatalf("decode verify output: %v", err)
	}
	if !v.Valid || v.Scheme != "scrypt" {
		t.Fatalf("verify = %+v", v)
	}
	if !v.NeedsRehash {
		t.Fatalf("ln=10 hash should need a rehash at the default cost")
	}
}
