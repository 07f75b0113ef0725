package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tessella/spritevault/snap"
	"github.com/Tessella/spritevault/sprite"
)

// SnapshotFileName is the structured text file holding the envelope tree.
const SnapshotFileName = "obj_data.json"

// Options configures one store or load pass.
type Options struct {
	// AllowedNamespaces lists the named property namespaces persisted in
	// addition to each entity's unnamed namespace.
	AllowedNamespaces []string

	// Registry overrides the default codec registry.
	Registry *snap.Registry

	// Logger receives per-operation diagnostics; nil means no logging.
	Logger *zap.Logger
}

func (o Options) registry() *snap.Registry {
	if o.Registry != nil {
		return o.Registry
	}
	return snap.Default()
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

func (o Options) context() *snap.Context {
	ctx := snap.NewContext()
	ctx.Registry = o.registry()
	ctx.AllowedNamespaces = o.AllowedNamespaces
	ctx.Log = o.logger()
	return ctx
}

// Store writes an encoded envelope tree to dir: sidecar files first, via
// each externalizing codec's hook, then the text-safe tree as
// obj_data.json. The input tree is mutated in place (heavy payloads are
// replaced by file references).
func Store(dir string, env *snap.Node, opts Options) error {
	log := opts.logger()
	reg := opts.registry()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("spritevault: %s: %w", dir, err)
	}

	sidecars := 0
	err := snap.Walk(env, func(tag string, data *snap.Node) error {
		codec, ok := reg.Lookup(tag)
		if !ok {
			return nil
		}
		ext, ok := codec.(snap.Externalizer)
		if !ok {
			return nil
		}
		if err := ext.Externalize(data, dir); err != nil {
			return fmt.Errorf("externalize %q: %w", tag, err)
		}
		sidecars++
		return nil
	})
	if err != nil {
		return err
	}

	text, err := snap.EmitJSON(env)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, SnapshotFileName)
	if err := writeFileAtomic(path, text); err != nil {
		return err
	}

	log.Info("stored snapshot",
		zap.String("dir", dir),
		zap.Int("bytes", len(text)),
		zap.Int("externalized", sidecars))
	return nil
}

// Load reads a snapshot directory back into an in-memory envelope tree,
// re-inflating every sidecar payload.
func Load(dir string, opts Options) (*snap.Node, error) {
	log := opts.logger()
	reg := opts.registry()

	path := filepath.Join(dir, SnapshotFileName)
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("spritevault: %s: %w", path, err)
	}
	env, err := snap.ParseJSON(text)
	if err != nil {
		return nil, fmt.Errorf("spritevault: %s: %w", path, err)
	}

	err = snap.Walk(env, func(tag string, data *snap.Node) error {
		codec, ok := reg.Lookup(tag)
		if !ok {
			return nil
		}
		ext, ok := codec.(snap.Externalizer)
		if !ok {
			return nil
		}
		if err := ext.Reinflate(data, dir); err != nil {
			return fmt.Errorf("re-inflate %q: %w", tag, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("loaded snapshot", zap.String("dir", dir), zap.Int("bytes", len(text)))
	return env, nil
}

// StoreDocument serializes a live document and stores it under dir.
func StoreDocument(dir string, doc *sprite.Document, opts Options) error {
	env, err := snap.Serialize(doc, opts.context())
	if err != nil {
		return err
	}
	return Store(dir, env, opts)
}

// LoadDocument loads a snapshot from dir and reconstructs a live document.
func LoadDocument(dir string, opts Options) (*sprite.Document, error) {
	env, err := Load(dir, opts)
	if err != nil {
		return nil, err
	}
	v, err := snap.Deserialize(env, opts.context())
	if err != nil {
		return nil, err
	}
	doc, ok := v.(*sprite.Document)
	if !ok {
		return nil, fmt.Errorf("spritevault: snapshot decoded to %T, want document", v)
	}
	return doc, nil
}

// writeFileAtomic writes data through a uniquely named temp file and a
// rename.
func writeFileAtomic(path string, data []byte) error {
	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("spritevault: %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("spritevault: %s: %w", path, err)
	}
	return nil
}
