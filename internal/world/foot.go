package world

import "github.com/ironvein/engine/internal/core/target"

// PathMax is the path buffer capacity. Longer routes are consumed in
// buffer-sized chunks; the entity re-paths when the buffer drains.
const PathMax = 24

const (
	pathRetryDelay  = 8 // ticks before retrying after a blocked step
	blockedWaitTick = 3 // ticks to idle behind a temporarily blocked cell
)

// FootState is the movement block shared by the mobile kinds: destination,
// bounded path buffer, and the driving flag that marks an in-flight step
// between cell centers.
type FootState struct {
	NavCom    target.Target
	Path      [PathMax]FacingType
	PathLen   int
	Driving   bool
	HeadTo    Coord // center of the cell currently being entered
	Speed     int32 // leptons per tick
	Class     MoveClass
	PathDelay int // countdown before the next path attempt
	Group     int // control-group / team tag
}

func (f *FootState) Foot() *FootState { return f }

// FootLike is a mobile combat entity.
type FootLike interface {
	TechnoLike
	Foot() *FootState
}

// AssignDestination points the entity at a new navigation target. A genuinely
// new destination clears the path and the retry delay; re-assigning the same
// destination leaves path state alone so an in-flight route is not thrown
// away.
func (w *State) AssignDestination(f FootLike, t target.Target) {
	ft := f.Foot()
	if t == ft.NavCom {
		return
	}
	ft.NavCom = t
	ft.PathLen = 0
	ft.PathDelay = 0
}

// Scatter sends a ground entity one cell out of wherever it stands, to the
// first enterable neighbour. Boxed in, it stays put.
func (w *State) Scatter(f FootLike) bool {
	c, ok := w.freeCellAround(f.Obj().Pos.Cell())
	if !ok {
		return false
	}
	w.AssignDestination(f, w.TargetForCell(c))
	return true
}

// BasicPath fills the path buffer with a route toward the navigation target.
// When the pathfinder fails outright the entity still gets a single
// straight-line facing: a mobile entity with a destination always has some
// direction to try, however poor.
func (w *State) BasicPath(f FootLike) bool {
	ft := f.Foot()
	if ft.NavCom.IsNone() {
		return false
	}
	dest, ok := w.TargetCoord(ft.NavCom)
	if !ok {
		ft.NavCom = target.None
		return false
	}
	from := f.Obj().Pos.Cell()
	to := dest.Cell()
	if from == to {
		ft.PathLen = 0
		return true
	}
	steps, found := w.Path.FindPath(from, to, PathMax, ft.Class)
	if !found || len(steps) == 0 {
		ft.Path[0] = FacingCell(from, to)
		ft.PathLen = 1
		return true
	}
	n := len(steps)
	if n > PathMax {
		n = PathMax
	}
	copy(ft.Path[:n], steps[:n])
	ft.PathLen = n
	return true
}

// ApproachTarget closes to weapon range of the attack target. If a
// destination is already pending it is left alone — re-aiming every tick
// would thrash the path. Otherwise a standoff cell at range is probed facing
// by facing, falling back to heading straight at the target when nothing
// around it is enterable.
func (w *State) ApproachTarget(f FootLike) {
	tech := f.Tech()
	ft := f.Foot()
	if tech.TarCom.IsNone() || !ft.NavCom.IsNone() {
		return
	}
	tgtPos, ok := w.TargetCoord(tech.TarCom)
	if !ok {
		return
	}
	rng := tech.Sight
	if tech.Primary != nil {
		rng = tech.Primary.Range
	}
	for r := rng; r >= LeptonsPerCell; r -= LeptonsPerCell {
		for face := FacingType(0); face < FacingCount; face++ {
			cand := tgtPos.Move(face, r).Cell()
			if w.Map.InBounds(cand) && w.Map.CanEnterCell(cand, ft.Class) == MoveOK {
				w.AssignDestination(f, w.TargetForCell(cand))
				return
			}
		}
	}
	w.AssignDestination(f, tech.TarCom)
}

// effectiveSpeed is the per-tick movement rate after condition modifiers.
func effectiveSpeed(f FootLike) int32 {
	speed := f.Foot().Speed
	if inf, ok := f.(*Infantry); ok && inf.Prone {
		speed /= 2
	}
	if speed < 1 {
		speed = 1
	}
	return speed
}

// consumePathHead drops the first facing and shifts the rest down. The
// buffer may have been truncated mid-step, so an empty path is tolerated.
func consumePathHead(ft *FootState) {
	if ft.PathLen <= 0 {
		return
	}
	copy(ft.Path[:], ft.Path[1:ft.PathLen])
	ft.PathLen--
}

// tickDrive advances the movement driver one tick: start the next path step
// when idle, otherwise glide toward the pending cell center and settle on
// arrival. Cell occupancy is reserved before a step begins and the old cell
// released when the step completes.
func (w *State) tickDrive(f FootLike) {
	obj := f.Obj()
	ft := f.Foot()
	if obj.InLimbo {
		return
	}

	if !ft.Driving {
		if ft.NavCom.IsNone() {
			return
		}
		if ft.PathDelay > 0 {
			ft.PathDelay--
			return
		}
		if ft.PathLen == 0 {
			if !w.BasicPath(f) {
				return
			}
			if ft.PathLen == 0 {
				// Already in the destination cell.
				w.arrive(f)
				return
			}
		}
		next := obj.Pos.Cell().Adjacent(ft.Path[0])
		switch w.Map.CanEnterCell(next, ft.Class) {
		case MoveBlocked:
			ft.PathLen = 0
			ft.PathDelay = pathRetryDelay
			return
		case MoveTemporarilyBlocked:
			if !w.crushable(f, next) {
				ft.PathDelay = blockedWaitTick
				return
			}
		}
		if ft.Class != MoveWinged {
			w.Map.MarkOccupied(next, obj.Self)
		}
		ft.HeadTo = next.Center()
		ft.Driving = true
	}

	speed := effectiveSpeed(f)
	f.Tech().Facing = DirectionTo(obj.Pos, ft.HeadTo)
	if Distance(obj.Pos, ft.HeadTo) <= speed {
		if ft.Class != MoveWinged {
			// The glide may have already carried the position into the
			// destination cell, so the cell being left is derived from the
			// travel direction rather than the current position.
			from := ft.HeadTo.Cell().Adjacent(f.Tech().Facing.Facing().Opposite())
			w.Map.ClearOccupied(from, obj.Self)
		}
		obj.Pos = ft.HeadTo
		consumePathHead(ft)
		ft.Driving = false
		if ft.PathLen == 0 {
			w.arrive(f)
		}
	} else {
		obj.Pos = obj.Pos.Move(f.Tech().Facing.Facing(), speed)
	}
}

// arrive clears the destination once the entity stands in its cell.
func (w *State) arrive(f FootLike) {
	ft := f.Foot()
	dest, ok := w.TargetCoord(ft.NavCom)
	if !ok {
		ft.NavCom = target.None
		return
	}
	if f.Obj().Pos.Cell() == dest.Cell() {
		ft.NavCom = target.None
	}
	// Buffer drained short of the goal: re-path next driver tick.
}

// huntTarget finds an enemy anywhere on the map, nearest first.
func (w *State) huntTarget(f FootLike) target.Target {
	tech := f.Tech()
	saveSight := tech.Sight
	savePrimary := tech.Primary
	tech.Sight = 1 << 20 // whole map
	tech.Primary = nil
	t := w.GreatestThreat(f, ThreatNormal)
	tech.Sight = saveSight
	tech.Primary = savePrimary
	return t
}

const timedHuntTicks = 45 * TicksPerSecond

// footMission is the mobile layer of the handler chain: movement missions
// plus the approach-then-fire attack loop.
func footMission(w *State, f FootLike, mission Mission) int {
	tech := f.Tech()
	ft := f.Foot()
	ms := f.Mis()

	switch mission {
	case MissionMove:
		if ft.NavCom.IsNone() && !ft.Driving {
			if ms.Queue == MissionNone {
				AssignMission(w, f, MissionGuard)
			}
			return delayIdle
		}
		// Movement and threat scanning are not mutually exclusive: an
		// AI-controlled mover shoots opportunistically without stopping.
		if tech.TarCom.IsNone() && tech.Primary != nil {
			if h := w.HouseByID(tech.House); h != nil && !h.Human {
				tech.TarCom = w.GreatestThreat(f, ThreatNormal)
			}
		}
		if !tech.TarCom.IsNone() && w.CanFire(f, tech.TarCom, 0) == FireOK {
			w.FireAt(f, tech.TarCom, 0)
		}
		return delayMove

	case MissionAttack:
		if tech.TarCom.IsNone() {
			AssignMission(w, f, MissionGuard)
			return delayIdle
		}
		switch w.CanFire(f, tech.TarCom, 0) {
		case FireOK:
			ft.PathLen = 0 // hold position while shooting
			w.FireAt(f, tech.TarCom, 0)
			return delayCombat
		case FireRange:
			w.ApproachTarget(f)
			return delayMove
		case FireCloaked:
			w.DoUncloak(f)
			return delayCombat
		case FireRearm:
			return delayCombat
		default:
			tech.TarCom = target.None
			AssignMission(w, f, MissionGuard)
			return delayIdle
		}

	case MissionGuard, MissionGuardArea:
		if tech.Primary == nil {
			return delaySleep
		}
		if tech.TarCom.IsNone() {
			flags := ThreatNormal
			if mission == MissionGuardArea {
				flags |= ThreatArea
			}
			tech.TarCom = w.GreatestThreat(f, flags)
			if tech.TarCom.IsNone() {
				return delayIdle
			}
		}
		switch w.CanFire(f, tech.TarCom, 0) {
		case FireOK:
			w.FireAt(f, tech.TarCom, 0)
			return delayCombat
		case FireRange:
			if mission == MissionGuardArea {
				// Area guard pursues inside its patrol reach.
				w.ApproachTarget(f)
				return delayMove
			}
			tech.TarCom = target.None
			return delayIdle
		case FireCloaked:
			w.DoUncloak(f)
			return delayCombat
		case FireRearm:
			return delayCombat
		default:
			tech.TarCom = target.None
			return delayIdle
		}

	case MissionHunt, MissionTimedHunt:
		if mission == MissionTimedHunt {
			ms.Status += delayMove
			if ms.Status > timedHuntTicks {
				AssignMission(w, f, MissionGuard)
				return delayIdle
			}
		}
		if tech.TarCom.IsNone() {
			tech.TarCom = w.huntTarget(f)
			if tech.TarCom.IsNone() {
				return delaySleep
			}
		}
		if w.CanFire(f, tech.TarCom, 0) == FireOK {
			w.FireAt(f, tech.TarCom, 0)
			return delayCombat
		}
		w.ApproachTarget(f)
		return delayMove

	case MissionEnter:
		return missionEnter(w, f)

	case MissionCapture:
		return missionCapture(w, f)

	case MissionRetreat:
		if ft.NavCom.IsNone() && !ft.Driving {
			home := w.homeCell(tech.House)
			if home == (Cell{}) {
				AssignMission(w, f, MissionGuard)
				return delayIdle
			}
			w.AssignDestination(f, w.TargetForCell(home))
		}
		if ft.NavCom.IsNone() {
			AssignMission(w, f, MissionGuard)
			return delayIdle
		}
		return delayMove

	case MissionStop:
		ft.NavCom = target.None
		ft.PathLen = 0
		tech.TarCom = target.None
		AssignMission(w, f, MissionGuard)
		return delayCombat

	case MissionSabotage:
		return missionSabotage(w, f)

	default:
		return technoMission(w, f, mission)
	}
}

// missionEnter walks the boarding protocol: raise the peer, close to an
// adjacent cell, then announce arrival. The peer decides what being "in"
// means — a transport stores the sender as cargo, a building docks it.
func missionEnter(w *State, f FootLike) int {
	tech := f.Tech()
	ft := f.Foot()
	ms := f.Mis()
	dest := ft.NavCom
	if dest.IsNone() {
		dest = tech.TarCom
	}
	peer := w.RadioOf(dest)
	if peer == nil {
		AssignMission(w, f, MissionGuard)
		return delayIdle
	}

	switch ms.Status {
	case 0: // raise the peer
		if Transmit(w, f, RadioHello, nil, dest) != RadioRoger {
			return delayIdle // bay is busy; ask again later
		}
		ms.Status = 1
		return delayDock
	case 1: // close the distance
		if !InContact(f, peer) {
			ms.Status = 0
			return delayIdle
		}
		if CellDistance(f.Obj().Pos.Cell(), peer.Obj().Pos.Cell()) <= 1 {
			ft.NavCom = target.None
			ft.PathLen = 0
			ms.Status = 2
			return delayDock
		}
		if ft.NavCom.IsNone() {
			w.AssignDestination(f, peer.Obj().Self)
		}
		return delayMove
	default: // announce arrival; the peer takes over from here
		if Transmit(w, f, RadioImIn, nil, peer.Obj().Self) == RadioRoger {
			return delayDock
		}
		Transmit(w, f, RadioOverOut, nil, target.None)
		AssignMission(w, f, MissionGuard)
		return delayIdle
	}
}

// missionCapture drives an engineer into an enemy building. Adjacency wins
// the building for the engineer's house and consumes the engineer.
func missionCapture(w *State, f FootLike) int {
	tech := f.Tech()
	ft := f.Foot()
	tgt := tech.TarCom
	b, ok := w.Resolve(tgt).(*Building)
	if !ok || !b.Type.Capturable {
		AssignMission(w, f, MissionGuard)
		return delayIdle
	}
	if CellDistance(f.Obj().Pos.Cell(), b.Pos.Cell()) <= 1 {
		w.CaptureBuilding(b, tech.House)
		w.DeleteObject(f) // the capturing engineer is expended
		return delayIdle
	}
	if ft.NavCom.IsNone() && !ft.Driving {
		w.AssignDestination(f, tgt)
	}
	return delayMove
}

// missionSabotage closes to an enemy building and sets a demolition charge.
func missionSabotage(w *State, f FootLike) int {
	tech := f.Tech()
	ft := f.Foot()
	b, ok := w.Resolve(tech.TarCom).(*Building)
	if !ok {
		AssignMission(w, f, MissionGuard)
		return delayIdle
	}
	if CellDistance(f.Obj().Pos.Cell(), b.Pos.Cell()) <= 1 {
		wh := w.Rules.Warheads.Get("high_explosive")
		w.SpawnAnim("big_explosion", b.Pos, target.None)
		w.Damage(b, b.MaxStrength, 0, wh, f.Obj().Self)
		tech.TarCom = target.None
		AssignMission(w, f, MissionRetreat)
		return delayIdle
	}
	if ft.NavCom.IsNone() && !ft.Driving {
		w.AssignDestination(f, tech.TarCom)
	}
	return delayMove
}
