package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tabstrip/internal/model"

	"github.com/go-logr/logr"
)

// TabOrderKey is the logical key the tab sequence is stored under.
const TabOrderKey = "tab order"

const tabOrderVersion = 1

// ErrMalformed marks persisted data that was discarded.
var ErrMalformed = errors.New("malformed tab order")

type tabOrderFile struct {
	Version int         `json:"version"`
	Tabs    []model.Tab `json:"tabs"`
}

// TabOrder reads and writes the tab sequence through a KV.
type TabOrder struct {
	KV  KV
	Log logr.Logger
}

// Read returns the persisted sequence. ok=false with a nil error means
// nothing was stored; malformed data yields an error wrapping ErrMalformed.
func (t TabOrder) Read(ctx context.Context) (tabs []model.Tab, ok bool, err error) {
	b, ok, err := t.KV.Get(ctx, TabOrderKey)
	if err != nil || !ok {
		return nil, false, err
	}
	tabs, err = DecodeTabOrder(b)
	if err != nil {
		return nil, false, err
	}
	return tabs, true, nil
}

// Load implements registry.Loader. Missing, unreadable or malformed data all
// report ok=false so the caller keeps its defaults.
func (t TabOrder) Load(ctx context.Context) ([]model.Tab, bool) {
	tabs, ok, err := t.Read(ctx)
	if err != nil {
		t.logger().Error(err, "discarding persisted tab order", "key", TabOrderKey)
		return nil, false
	}
	return tabs, ok
}

func (t TabOrder) Save(ctx context.Context, tabs []model.Tab) error {
	b, err := EncodeTabOrder(tabs)
	if err != nil {
		return err
	}
	return t.KV.Put(ctx, TabOrderKey, b)
}

func (t TabOrder) logger() logr.Logger {
	if t.Log.GetSink() == nil {
		return logr.Discard()
	}
	return t.Log
}

func EncodeTabOrder(tabs []model.Tab) ([]byte, error) {
	if tabs == nil {
		tabs = []model.Tab{}
	}
	return json.MarshalIndent(tabOrderFile{Version: tabOrderVersion, Tabs: tabs}, "", "  ")
}

// DecodeTabOrder accepts the versioned envelope as well as a bare JSON array
// written by older builds.
func DecodeTabOrder(b []byte) ([]model.Tab, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrMalformed)
	}
	var tabs []model.Tab
	switch b[0] {
	case '[':
		if err := json.Unmarshal(b, &tabs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	case '{':
		var f tabOrderFile
		if err := json.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if f.Version < 0 || f.Version > tabOrderVersion {
			return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformed, f.Version)
		}
		tabs = f.Tabs
	default:
		return nil, fmt.Errorf("%w: unexpected JSON", ErrMalformed)
	}
	if len(tabs) == 0 {
		return nil, fmt.Errorf("%w: no tabs", ErrMalformed)
	}
	if err := model.Validate(tabs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return tabs, nil
}
