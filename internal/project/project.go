// Package project rewrites the template files of a freshly cloned project.
package project

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chiptune-stack/chiptune/internal/constants"
	"github.com/chiptune-stack/chiptune/internal/database"
	apperrors "github.com/chiptune-stack/chiptune/internal/errors"
	"github.com/chiptune-stack/chiptune/internal/template"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Workflow tokens replaced in the CI workflow.
const (
	TokenWebAppName     = "${AZURE_WEBAPP_NAME}"
	TokenRegistryURL    = "${AZURE_REGISTRY_URL}"
	TokenSubscriptionID = "${AZURE_SUBSCRIPTION_ID}"
	TokenTenantID       = "${AZURE_TENANT_ID}"
	TokenImageName      = "${IMAGE_NAME}"
)

// WorkflowValues fill the CI workflow tokens.
type WorkflowValues struct {
	WebAppName     string
	RegistryURL    string
	SubscriptionID string
	TenantID       string
	ImageName      string
}

// Writer rewrites files below a project root.
type Writer struct {
	fs     afero.Fs
	root   string
	logger *slog.Logger
}

// NewWriter creates a Writer for root.
func NewWriter(fs afero.Fs, root string, logger *slog.Logger) *Writer {
	return &Writer{fs: fs, root: root, logger: logger}
}

// Path returns the absolute path of a project-relative file.
func (w *Writer) Path(rel string) string {
	return filepath.Join(w.root, rel)
}

// ReadmeRules replaces the template name with the app name.
func ReadmeRules(appName string) []template.Rule {
	return []template.Rule{template.Literal(constants.TemplateName, appName)}
}

// Readme rewrites README.md in place.
func (w *Writer) Readme(appName string) error {
	return template.RewriteInPlace(w.fs, w.Path(constants.ReadmeFile), ReadmeRules(appName))
}

// EnvironmentRules replaces the session secret and database lines.
func EnvironmentRules(sessionSecret, databaseURL string) []template.Rule {
	return []template.Rule{
		template.Line(constants.EnvSessionSecret, sessionSecret),
		template.Line(constants.EnvDatabaseURL, databaseURL),
	}
}

// EnvironmentFile renders .env from .env.example. Keys missing from the example are appended,
// and SHADOW_DATABASE_URL is added only when the selection carries a shadow database.
func (w *Writer) EnvironmentFile(sessionSecret string, sel *database.Selection) error {
	src := w.Path(constants.EnvExampleFile)
	data, err := afero.ReadFile(w.fs, src)
	if err != nil {
		return apperrors.ErrFileSystem("read", src, err)
	}
	text := string(data)

	text, err = template.Apply(text, EnvironmentRules(sessionSecret, sel.ConnectionString))
	if err != nil {
		return apperrors.ErrInvalidDocument(src, err)
	}

	eol := "\n"
	if strings.Contains(text, "\r\n") {
		eol = "\r\n"
	}
	appendLine := func(key, value string) {
		if text != "" && !strings.HasSuffix(text, "\n") {
			text += eol
		}
		text += key + `="` + value + `"` + eol
	}
	if !template.HasLine(text, constants.EnvSessionSecret) {
		appendLine(constants.EnvSessionSecret, sessionSecret)
	}
	if !template.HasLine(text, constants.EnvDatabaseURL) {
		appendLine(constants.EnvDatabaseURL, sel.ConnectionString)
	}
	if sel.ShadowConnectionString != nil {
		appendLine(constants.EnvShadowDatabase, *sel.ShadowConnectionString)
	}

	return template.WriteFile(w.fs, w.Path(constants.EnvFile), []byte(text))
}

// PackageJSON sets the manifest name and rewrites it in canonical key order with two-space indentation.
func (w *Writer) PackageJSON(appName string) error {
	path := w.Path(constants.PackageJSONFile)
	data, err := afero.ReadFile(w.fs, path)
	if err != nil {
		return apperrors.ErrFileSystem("read", path, err)
	}

	out, err := RenamePackage(data, appName)
	if err != nil {
		return apperrors.ErrInvalidDocument(path, err)
	}
	return template.WriteFile(w.fs, path, out)
}

// manifestOrder is the canonical top-level key order of package.json.
// Keys not listed keep their original relative order after the listed ones.
var manifestOrder = []string{
	"$schema", "name", "displayName", "version", "private", "description", "categories",
	"keywords", "homepage", "bugs", "repository", "funding", "license", "author",
	"maintainers", "contributors", "publisher", "sideEffects", "type", "imports", "exports",
	"main", "module", "source", "browser", "types", "typesVersions", "typings", "style",
	"bin", "man", "directories", "files", "workspaces", "scripts", "config",
	"prettier", "eslintConfig", "eslintIgnore", "jest", "resolutions", "overrides",
	"dependencies", "devDependencies", "dependenciesMeta", "peerDependencies",
	"peerDependenciesMeta", "optionalDependencies", "bundledDependencies",
	"bundleDependencies", "packageManager", "engines", "volta", "os", "cpu", "publishConfig",
}

// sortedManifestMaps are the objects whose keys are sorted alphabetically.
var sortedManifestMaps = map[string]bool{
	"dependencies":         true,
	"devDependencies":      true,
	"peerDependencies":     true,
	"optionalDependencies": true,
	"resolutions":          true,
	"overrides":            true,
}

type manifestField struct {
	key   string
	value json.RawMessage
}

// RenamePackage returns manifest with its name set to appName. Top-level keys follow the
// canonical manifest order and dependency maps are sorted; every other object keeps its order.
func RenamePackage(manifest []byte, appName string) ([]byte, error) {
	fields, err := decodeManifest(manifest)
	if err != nil {
		return nil, err
	}

	name, err := marshalNoEscape(appName)
	if err != nil {
		return nil, err
	}
	fields = setField(fields, "name", name)

	rank := make(map[string]int, len(manifestOrder))
	for i, k := range manifestOrder {
		rank[k] = i
	}
	sort.SliceStable(fields, func(i, j int) bool {
		ri, iok := rank[fields[i].key]
		rj, jok := rank[fields[j].key]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return false
		}
	})

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, f := range fields {
		value := f.value
		if sortedManifestMaps[f.key] {
			if value, err = sortObject(value); err != nil {
				return nil, fmt.Errorf("%s: %w", f.key, err)
			}
		}
		key, err := marshalNoEscape(f.key)
		if err != nil {
			return nil, err
		}
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		if err := json.Indent(&buf, value, "  ", "  "); err != nil {
			return nil, fmt.Errorf("%s: %w", f.key, err)
		}
		if i < len(fields)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// decodeManifest reads the top-level fields of a JSON object in document order.
// A repeated key keeps its first position and its last value.
func decodeManifest(data []byte) ([]manifestField, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("manifest is not an object")
	}

	var fields []manifestField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected manifest token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		fields = setField(fields, key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return fields, nil
}

func setField(fields []manifestField, key string, value json.RawMessage) []manifestField {
	for i := range fields {
		if fields[i].key == key {
			fields[i].value = value
			return fields
		}
	}
	return append(fields, manifestField{key: key, value: value})
}

// sortObject re-encodes a JSON object with its keys sorted. Other values are returned as is.
func sortObject(value json.RawMessage) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(value, &obj); err != nil || obj == nil {
		return value, nil //nolint:nilerr // non-object values are kept verbatim
	}
	return marshalNoEscape(obj)
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WorkflowRules replaces the CI workflow tokens.
func WorkflowRules(v WorkflowValues) []template.Rule {
	return []template.Rule{
		template.Literal(TokenWebAppName, v.WebAppName),
		template.Literal(TokenRegistryURL, v.RegistryURL),
		template.Literal(TokenSubscriptionID, v.SubscriptionID),
		template.Literal(TokenTenantID, v.TenantID),
		template.Literal(TokenImageName, v.ImageName),
	}
}

// Workflow rewrites the deploy workflow and checks the result is still valid YAML.
func (w *Writer) Workflow(v WorkflowValues) error {
	path := w.Path(constants.WorkflowFile)
	data, err := afero.ReadFile(w.fs, path)
	if err != nil {
		return apperrors.ErrFileSystem("read", path, err)
	}

	out, err := template.Apply(string(data), WorkflowRules(v))
	if err != nil {
		return apperrors.ErrInvalidDocument(path, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		return apperrors.ErrInvalidDocument(path, err)
	}
	return template.WriteFile(w.fs, path, []byte(out))
}

// Job is one independent file rewrite.
type Job struct {
	Path string
	Run  func() error
}

// WriteAll runs jobs concurrently and waits for all of them.
// It returns the paths of the jobs that completed, even when another job failed.
func WriteAll(ctx context.Context, jobs ...Job) ([]string, error) {
	done := make([]bool, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := job.Run(); err != nil {
				return fmt.Errorf("%s: %w", job.Path, err)
			}
			done[i] = true
			return nil
		})
	}
	err := g.Wait()

	var touched []string
	for i, ok := range done {
		if ok {
			touched = append(touched, jobs[i].Path)
		}
	}
	return touched, err
}

// Ignore appends the entries missing from .gitignore, creating the file when needed,
// and reports whether it changed.
func (w *Writer) Ignore(entries ...string) (bool, error) {
	path := w.Path(constants.GitignoreFile)
	data, err := afero.ReadFile(w.fs, path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, apperrors.ErrFileSystem("read", path, err)
	}
	text := string(data)

	present := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "/")
		present[line] = true
	}

	changed := false
	for _, entry := range entries {
		if present[entry] {
			continue
		}
		if text != "" && !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		text += entry + "\n"
		present[entry] = true
		changed = true
	}
	if !changed {
		return false, nil
	}
	if err := template.WriteFile(w.fs, path, []byte(text)); err != nil {
		return false, err
	}
	w.logger.Debug("updated gitignore", "path", path, "entries", entries)
	return true, nil
}

// CleanupOptions selects the template-only files to remove.
type CleanupOptions struct {
	RemoveInitDir bool
	RemoveGitDir  bool
}

// Cleanup removes template-only files and returns the paths removed.
// It must run only after every rewrite has completed.
func (w *Writer) Cleanup(opts CleanupOptions) ([]string, error) {
	targets := []string{constants.LicenseFile}
	if opts.RemoveInitDir {
		targets = append(targets, constants.TemplateInitDir)
	}
	if opts.RemoveGitDir {
		targets = append(targets, constants.GitDir)
	}

	var removed []string
	for _, rel := range targets {
		path := w.Path(rel)
		exists, err := afero.Exists(w.fs, path)
		if err != nil {
			return removed, apperrors.ErrFileSystem("stat", path, err)
		}
		if !exists {
			continue
		}
		if err := w.fs.RemoveAll(path); err != nil {
			return removed, apperrors.ErrFileSystem("remove", path, err)
		}
		w.logger.Debug("removed template file", "path", path)
		removed = append(removed, rel)
	}
	return removed, nil
}
