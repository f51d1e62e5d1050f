// Package wm implements the window manager registry.
// This file contains the Registry: the sorted list, the current window
// manager and the startup snapshot.
package wm

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/yllada/wm-properties/common"
)

// Registry holds the known window managers, the current one, and the
// snapshot taken at startup for revert.
//
// A Registry is not safe for concurrent use. It is meant to be driven
// from a single event loop.
type Registry struct {
	systemDir   string
	userDir     string
	defaultFile string
	store       common.SettingsStore
	lookPath    LookPathFunc

	list            []*Descriptor
	current         *Descriptor
	snapshot        []*Descriptor
	currentSnapshot *Descriptor
	initialized     bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithSystemDir sets the read-only descriptor directory.
func WithSystemDir(dir string) Option {
	return func(r *Registry) { r.systemDir = dir }
}

// WithUserDir sets the user's writable descriptor directory.
func WithUserDir(dir string) Option {
	return func(r *Registry) { r.userDir = dir }
}

// WithDefaultFile sets the legacy default.wm file.
func WithDefaultFile(path string) Option {
	return func(r *Registry) { r.defaultFile = path }
}

// WithLookPath replaces exec.LookPath for presence probing.
func WithLookPath(fn LookPathFunc) Option {
	return func(r *Registry) { r.lookPath = fn }
}

// NewRegistry creates an empty registry persisting into store.
func NewRegistry(store common.SettingsStore, opts ...Option) *Registry {
	r := &Registry{
		systemDir:   common.SystemDescriptorDir,
		userDir:     common.UserDescriptorDir(),
		defaultFile: common.LegacyDefaultFile,
		store:       store,
		lookPath:    exec.LookPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// UserDir returns the directory user descriptors are saved to.
func (r *Registry) UserDir() string {
	return r.userDir
}

// Initialize scans the system and user directories and picks the
// current window manager. Unreadable files are skipped.
func (r *Registry) Initialize() error {
	r.list = nil
	r.snapshot = nil
	r.current = nil
	r.currentSnapshot = nil

	r.readDir(r.systemDir, false)
	r.readDir(r.userDir, true)

	r.current = r.resolveCurrent()
	if r.current != nil {
		r.currentSnapshot = findByName(r.snapshot, r.current.Name)
	}
	r.initialized = true

	if r.current != nil {
		common.LogDebug("Loaded %d window managers, current is %s", len(r.list), r.current.Name)
	} else {
		common.LogDebug("Loaded %d window managers, no current", len(r.list))
	}
	return nil
}

func (r *Registry) readDir(dir string, isUser bool) {
	if dir == "" {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		common.LogDebug("Skipping descriptor directory %s: %v", dir, err)
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || len(name) <= len(common.DescriptorSuffix) || !strings.HasSuffix(name, common.DescriptorSuffix) {
			continue
		}

		d, err := ReadDesktopFile(filepath.Join(dir, name))
		if err != nil {
			common.LogDebug("Skipping descriptor %s: %v", name, err)
			continue
		}
		d.IsUser = isUser
		d.CheckPresent(r.lookPath)

		if !d.valid() {
			common.LogDebug("Ignoring window manager %q from %s", d.Name, name)
			continue
		}

		r.list = insertSorted(r.list, d)
		r.snapshot = insertSorted(r.snapshot, d.clone())
	}
}

func (r *Registry) resolveCurrent() *Descriptor {
	if cmd, ok := r.setting(common.SettingsKeyCurrent); ok {
		if d := findByExec(r.list, cmd); d != nil {
			return d
		}
	}
	if cmd, ok := r.setting(common.SettingsKeyDefault); ok {
		if d := findByExec(r.list, cmd); d != nil {
			return d
		}
	}
	if cmd, ok := readLegacyDefault(r.defaultFile); ok {
		if d := findByExec(r.list, cmd); d != nil {
			return d
		}
	}
	if len(r.list) > 0 {
		return r.list[0]
	}
	return nil
}

func (r *Registry) setting(key string) (string, bool) {
	if r.store == nil {
		return "", false
	}
	value, ok, err := r.store.GetString(key)
	if err != nil {
		common.LogWarn("Failed to read %s: %v", key, err)
		return "", false
	}
	return value, ok && value != ""
}

// Save writes every user descriptor to the user directory, removes
// desktop files no user descriptor owns, and persists the current
// window manager.
func (r *Registry) Save() error {
	owned := make(map[string]bool)
	hasUser := false
	for _, d := range r.list {
		if d.IsUser {
			hasUser = true
			break
		}
	}
	if hasUser {
		if err := common.EnsureDir(r.userDir); err != nil {
			return common.WrapError(err, "failed to create user descriptor directory")
		}
	}

	for _, d := range r.list {
		if !d.IsUser {
			continue
		}
		if d.Location == "" || filepath.Dir(d.Location) != filepath.Clean(r.userDir) || owned[d.Location] {
			d.Location = r.freeLocation(d.Name, owned)
		}
		owned[d.Location] = true
		if err := WriteDesktopFile(d); err != nil {
			return err
		}
	}

	r.removeStale(owned)

	if r.current != nil && r.store != nil {
		if err := r.store.SetString(common.SettingsKeyCurrent, r.current.Exec); err != nil {
			return common.WrapError(err, "failed to persist current window manager")
		}
	}
	return nil
}

// freeLocation derives a file name from name that no other user
// descriptor in this save uses.
func (r *Registry) freeLocation(name string, owned map[string]bool) string {
	base := strings.TrimSuffix(common.DescriptorFileName(name), common.DescriptorSuffix)
	path := filepath.Join(r.userDir, base+common.DescriptorSuffix)
	for i := 1; owned[path] || r.locationTaken(path); i++ {
		path = filepath.Join(r.userDir, base+"-"+strconv.Itoa(i)+common.DescriptorSuffix)
	}
	return path
}

// locationTaken reports whether another descriptor already claims path.
func (r *Registry) locationTaken(path string) bool {
	for _, d := range r.list {
		if d.Location == path {
			return true
		}
	}
	return false
}

func (r *Registry) removeStale(owned map[string]bool) {
	entries, err := os.ReadDir(r.userDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), common.DescriptorSuffix) {
			continue
		}
		path := filepath.Join(r.userDir, entry.Name())
		if owned[path] {
			continue
		}
		if err := os.Remove(path); err != nil {
			common.LogWarn("Failed to remove stale descriptor %s: %v", path, err)
		} else {
			common.LogDebug("Removed stale descriptor %s", path)
		}
	}
}

// Revert replaces the live list with a copy of the startup snapshot.
// Current keeps naming the window manager that is running now, so it
// becomes nil when that one is not in the snapshot. RevertTarget names
// the one to switch back to.
func (r *Registry) Revert() error {
	if !r.initialized {
		return common.ErrNoSnapshot
	}

	running := ""
	if r.current != nil {
		running = r.current.Name
	}

	list := make([]*Descriptor, 0, len(r.snapshot))
	for _, d := range r.snapshot {
		list = append(list, d.clone())
	}
	r.list = list

	r.current = nil
	if running != "" {
		r.current = findByName(r.list, running)
	}
	return nil
}

// Add inserts d into the list, keeping it sorted.
func (r *Registry) Add(d *Descriptor) error {
	if d == nil {
		return common.ErrInvalidDescriptor
	}
	if indexOf(r.list, d) >= 0 {
		return nil
	}
	r.list = insertSorted(r.list, d)
	return nil
}

// Create validates edit and adds a new user descriptor built from it.
func (r *Registry) Create(edit Edit) (*Descriptor, error) {
	if err := validateEdit(edit); err != nil {
		return nil, err
	}
	d := &Descriptor{IsUser: true}
	applyEdit(d, edit)
	d.CheckPresent(r.lookPath)
	r.list = insertSorted(r.list, d)
	return d, nil
}

// Update applies edit to a user descriptor and re-sorts the list.
func (r *Registry) Update(d *Descriptor, edit Edit) error {
	i := indexOf(r.list, d)
	if i < 0 {
		return common.ErrNotInList
	}
	if !d.IsUser {
		return common.ErrReadOnly
	}
	if err := validateEdit(edit); err != nil {
		return err
	}

	r.list = append(r.list[:i:i], r.list[i+1:]...)
	applyEdit(d, edit)
	d.CheckPresent(r.lookPath)
	r.list = insertSorted(r.list, d)
	return nil
}

func validateEdit(edit Edit) error {
	if common.IsBlank(edit.Name) {
		return fmt.Errorf("%w: Name cannot be empty", common.ErrInvalidDescriptor)
	}
	if common.IsBlank(edit.Exec) {
		return fmt.Errorf("%w: Command cannot be empty", common.ErrInvalidDescriptor)
	}
	return nil
}

func applyEdit(d *Descriptor, edit Edit) {
	d.Name = strings.TrimSpace(edit.Name)
	d.Exec = strings.TrimSpace(edit.Exec)
	d.ConfigExec = strings.TrimSpace(edit.ConfigExec)
	d.SessionManaged = edit.SessionManaged
}

// Delete removes d from the list. The current window manager cannot be
// deleted.
func (r *Registry) Delete(d *Descriptor) error {
	if d != nil && d == r.current {
		return common.ErrDeleteCurrent
	}
	i := indexOf(r.list, d)
	if i < 0 {
		return common.ErrNotInList
	}
	r.list = append(r.list[:i:i], r.list[i+1:]...)
	return nil
}

// SetCurrent marks d as the running window manager. A nil d clears it.
func (r *Registry) SetCurrent(d *Descriptor) error {
	if d != nil && indexOf(r.list, d) < 0 {
		return common.ErrNotInList
	}
	r.current = d
	return nil
}

// Current returns the window manager believed to be running, or nil.
func (r *Registry) Current() *Descriptor {
	return r.current
}

// RevertTarget returns the live descriptor named like the one that was
// current at startup, or nil.
func (r *Registry) RevertTarget() *Descriptor {
	if r.currentSnapshot == nil {
		return nil
	}
	return findByName(r.list, r.currentSnapshot.Name)
}

// List returns the window managers in display order. The slice is a
// copy; the descriptors are shared.
func (r *Registry) List() []*Descriptor {
	out := make([]*Descriptor, len(r.list))
	copy(out, r.list)
	return out
}

// Find returns the descriptor with the given display name.
func (r *Registry) Find(name string) (*Descriptor, error) {
	if d := findByName(r.list, name); d != nil {
		return d, nil
	}
	for _, d := range r.list {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", common.ErrDescriptorNotFound, name)
}

func insertSorted(list []*Descriptor, d *Descriptor) []*Descriptor {
	i := sort.Search(len(list), func(i int) bool {
		return lessName(d.Name, list[i].Name)
	})
	list = append(list, nil)
	copy(list[i+1:], list[i:])
	list[i] = d
	return list
}

func indexOf(list []*Descriptor, d *Descriptor) int {
	if d == nil {
		return -1
	}
	for i, x := range list {
		if x == d {
			return i
		}
	}
	return -1
}

func findByName(list []*Descriptor, name string) *Descriptor {
	for _, d := range list {
		if d.Name == name {
			return d
		}
	}
	return nil
}

func findByExec(list []*Descriptor, cmd string) *Descriptor {
	for _, d := range list {
		if d.Exec != "" && d.Exec == cmd {
			return d
		}
	}
	return nil
}
