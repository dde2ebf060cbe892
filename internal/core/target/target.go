package target

// Kind is the RTTI tag identifying which pool an entity lives in.
type Kind uint8

const (
	KindNone Kind = iota
	KindBuilding
	KindInfantry
	KindUnit
	KindAircraft
	KindBullet
	KindAnim
	KindCell
)

var kindNames = [...]string{
	KindNone:     "none",
	KindBuilding: "building",
	KindInfantry: "infantry",
	KindUnit:     "unit",
	KindAircraft: "aircraft",
	KindBullet:   "bullet",
	KindAnim:     "anim",
	KindCell:     "cell",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Target encodes a kind tag in the top byte and a pool slot index below.
// It is the only way entities refer to each other: the handle is resolved
// through the owning pool on every dereference, so a handle to a freed slot
// simply stops resolving instead of dangling.
type Target uint32

// None is the sentinel target. It never resolves.
const None Target = 0

const indexMask = 0x00FFFFFF

// Build packs a kind and slot index into a Target.
// A negative index or KindNone yields None.
func Build(k Kind, index int) Target {
	if k == KindNone || index < 0 || index > indexMask {
		return None
	}
	return Target(uint32(k)<<24 | uint32(index))
}

func (t Target) Kind() Kind {
	return Kind(t >> 24)
}

func (t Target) Index() int {
	return int(t & indexMask)
}

func (t Target) IsNone() bool {
	return t.Kind() == KindNone
}
