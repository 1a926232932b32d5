package btree

// Mgl holds multi-granularity lock-mode counts for one page. It is a
// hook for a future lock manager: the tree algorithms never read or
// write it, only carry it alongside each page.
type Mgl struct {
	numS   uint16
	numX   uint8 // 0 or 1
	numSix uint8 // 0 or 1
	numIs  uint16
	numIx  uint16
}

func (m *Mgl) NumS() uint16   { return m.numS }
func (m *Mgl) NumX() uint16   { return uint16(m.numX) }
func (m *Mgl) NumSix() uint16 { return uint16(m.numSix) }
func (m *Mgl) NumIs() uint16  { return m.numIs }
func (m *Mgl) NumIx() uint16  { return m.numIx }

func (m *Mgl) NoS() bool   { return m.numS == 0 }
func (m *Mgl) NoX() bool   { return m.numX == 0 }
func (m *Mgl) NoSix() bool { return m.numSix == 0 }
func (m *Mgl) NoIs() bool  { return m.numIs == 0 }
func (m *Mgl) NoIx() bool  { return m.numIx == 0 }

// Compatibility predicates follow the standard multi-granularity
// matrix: a mode can be granted only if no incompatible mode is held.
func (m *Mgl) CanS() bool   { return m.NoIx() && m.NoSix() && m.NoX() }
func (m *Mgl) CanX() bool   { return m.NoIs() && m.NoIx() && m.NoS() && m.NoSix() && m.NoX() }
func (m *Mgl) CanSix() bool { return m.NoIx() && m.NoS() && m.NoSix() && m.NoX() }
func (m *Mgl) CanIs() bool  { return m.NoX() }
func (m *Mgl) CanIx() bool  { return m.NoS() && m.NoSix() && m.NoX() }

// Reset drops all counts.
func (m *Mgl) Reset() {
	*m = Mgl{}
}
