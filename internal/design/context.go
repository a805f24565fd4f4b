// Package design holds the shared design context that every toolchain stage
// reads from and writes to during a shell session.
//
// A Context has exactly one owner, the session. Mutating stages receive the
// *Context itself; read-only stages only ever see it through the Reader
// interface.
package design

import "slices"

// Architecture is the loaded fabric architecture description.
type Architecture struct {
	Path    string
	Content []byte
}

// PlaceRoute is the packing/placement/routing result the architecture is linked against.
type PlaceRoute struct {
	Circuit string
	Blocks  int
}

// Fabric is the module graph built from a linked architecture.
type Fabric struct {
	CompressRouting  bool
	DuplicateGridPin bool
	Modules          int
}

// Bitstream is the fabric-independent bitstream database.
type Bitstream struct {
	Bits int
	// FabricOrdered is set once the bits are reorganized for the built fabric.
	FabricOrdered bool
}

// Reader is the read-only view of a Context handed to read-only stages.
type Reader interface {
	Architecture() (Architecture, bool)
	PlaceRoute() (PlaceRoute, bool)
	Linked() bool
	ActivityFile() string
	Fixups() []string
	Fabric() (Fabric, bool)
	Repacked() bool
	Bitstream() (Bitstream, bool)
	Outputs() []string
}

// Context is the mutable design state of one session.
type Context struct {
	arch         *Architecture
	placeRoute   *PlaceRoute
	linked       bool
	activityFile string
	fixups       []string
	fabric       *Fabric
	repacked     bool
	bitstream    *Bitstream
	outputs      []string
}

var _ Reader = (*Context)(nil)

// New returns an empty design context.
func New() *Context {
	return &Context{}
}

func (c *Context) Architecture() (Architecture, bool) {
	if c.arch == nil {
		return Architecture{}, false
	}
	a := *c.arch
	a.Content = slices.Clone(c.arch.Content)
	return a, true
}

// SetArchitecture replaces the loaded architecture. Anything derived from the
// previous architecture is invalidated.
func (c *Context) SetArchitecture(a Architecture) {
	a.Content = slices.Clone(a.Content)
	c.arch = &a
	c.linked = false
	c.fabric = nil
	c.repacked = false
	c.bitstream = nil
}

func (c *Context) PlaceRoute() (PlaceRoute, bool) {
	if c.placeRoute == nil {
		return PlaceRoute{}, false
	}
	return *c.placeRoute, true
}

func (c *Context) SetPlaceRoute(pr PlaceRoute) {
	c.placeRoute = &pr
}

func (c *Context) Linked() bool { return c.linked }

func (c *Context) ActivityFile() string { return c.activityFile }

// Link marks the architecture as bound to the place-and-route result.
func (c *Context) Link(activityFile string) {
	c.linked = true
	c.activityFile = activityFile
}

func (c *Context) Fixups() []string { return slices.Clone(c.fixups) }

// AddFixup records a named correction applied to the packing results.
func (c *Context) AddFixup(name string) {
	c.fixups = append(c.fixups, name)
}

func (c *Context) Fabric() (Fabric, bool) {
	if c.fabric == nil {
		return Fabric{}, false
	}
	return *c.fabric, true
}

func (c *Context) SetFabric(f Fabric) {
	c.fabric = &f
	c.repacked = false
	c.bitstream = nil
}

func (c *Context) Repacked() bool { return c.repacked }

func (c *Context) SetRepacked() { c.repacked = true }

func (c *Context) Bitstream() (Bitstream, bool) {
	if c.bitstream == nil {
		return Bitstream{}, false
	}
	return *c.bitstream, true
}

func (c *Context) SetBitstream(b Bitstream) {
	c.bitstream = &b
}

func (c *Context) Outputs() []string { return slices.Clone(c.outputs) }

// AddOutput records a file written by an emission stage.
func (c *Context) AddOutput(path string) {
	c.outputs = append(c.outputs, path)
}
