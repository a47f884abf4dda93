package mktree

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/neovim/go-client/nvim"
)

var ErrNoNvim = errors.New("no running neovim: set NVIM or NVIM_LISTEN_ADDRESS")

// NvimManager hands created files to a Neovim instance the user already
// has open.
type NvimManager struct {
	v *nvim.Nvim
}

func NewNvimManager() (*NvimManager, error) {
	for _, env := range []string{"NVIM", "NVIM_LISTEN_ADDRESS"} {
		addr := os.Getenv(env)
		if addr == "" {
			continue
		}
		v, err := nvim.Dial(addr)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", addr, err)
		}
		return &NvimManager{v: v}, nil
	}
	return nil, ErrNoNvim
}

func (m *NvimManager) Close() {
	if m.v != nil {
		m.v.Close()
	}
}

// OpenFiles adds each file to the buffer list and shows the first one.
func (m *NvimManager) OpenFiles(paths []string, progressCb func(int)) (opened, failed []string) {
	for i, p := range paths {
		if m.addBuffer(p) {
			opened = append(opened, p)
		} else {
			failed = append(failed, p)
		}
		if progressCb != nil {
			progressCb(i + 1)
		}
	}
	if len(opened) > 0 {
		if abs, err := filepath.Abs(opened[0]); err == nil {
			_ = m.v.Command(fmt.Sprintf("edit %s", escapePath(abs)))
		}
	}
	return opened, failed
}

func (m *NvimManager) addBuffer(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	b := m.v.NewBatch()
	b.Command(fmt.Sprintf("badd %s", escapePath(absPath)))
	return b.Execute() == nil
}

func escapePath(p string) string {
	out := make([]rune, 0, len(p))
	for _, r := range p {
		switch r {
		case ' ', '\\', '%', '#', '|', '"':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
