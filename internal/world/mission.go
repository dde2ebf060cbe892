package world

import (
	"fmt"

	"github.com/ironvein/engine/internal/core/target"
)

// Mission is the order currently governing an entity's behavior.
type Mission uint8

const (
	MissionNone Mission = iota
	MissionSleep
	MissionAttack
	MissionMove
	MissionRetreat
	MissionGuard
	MissionGuardArea
	MissionEnter
	MissionCapture
	MissionHarvest
	MissionReturn
	MissionStop
	MissionAmbush
	MissionHunt
	MissionTimedHunt
	MissionUnload
	MissionSabotage
	MissionConstruction
	MissionDeconstruction
	MissionRepair
	MissionMissile
	missionCount
)

var missionNames = [missionCount]string{
	MissionNone:           "none",
	MissionSleep:          "sleep",
	MissionAttack:         "attack",
	MissionMove:           "move",
	MissionRetreat:        "retreat",
	MissionGuard:          "guard",
	MissionGuardArea:      "guard_area",
	MissionEnter:          "enter",
	MissionCapture:        "capture",
	MissionHarvest:        "harvest",
	MissionReturn:         "return",
	MissionStop:           "stop",
	MissionAmbush:         "ambush",
	MissionHunt:           "hunt",
	MissionTimedHunt:      "timed_hunt",
	MissionUnload:         "unload",
	MissionSabotage:       "sabotage",
	MissionConstruction:   "construction",
	MissionDeconstruction: "deconstruction",
	MissionRepair:         "repair",
	MissionMissile:        "missile",
}

func (m Mission) String() string {
	if m < missionCount {
		return missionNames[m]
	}
	return "unknown"
}

// ParseMission resolves a mission name from scenario data or an order.
func ParseMission(name string) (Mission, error) {
	for i, n := range missionNames {
		if n == name {
			return Mission(i), nil
		}
	}
	return MissionNone, fmt.Errorf("unknown mission %q", name)
}

// Tick cadence. The exact values are tuning; the relative ordering
// (combat faster than idle, idle faster than sleep) is load-bearing for
// responsiveness and is pinned by tests.
const (
	TicksPerSecond = 15

	delayCombat = 1
	delayMove   = 1
	delayDock   = 5
	delayIdle   = TicksPerSecond
	delaySleep  = 2 * TicksPerSecond
)

// MissionState is the per-entity mission machine: the running mission, the
// queued one awaiting commencement, and a single-level suspend slot for
// temporary overrides.
type MissionState struct {
	Mission   Mission
	Queue     Mission
	Suspended Mission
	Status    int // mission-private sub-state
	Timer     int // ticks until the handler runs again
}

func (m *MissionState) Mis() *MissionState { return m }

// CanCommence is the default commencement gate. Kinds that must refuse new
// orders in some states (a building still under construction) shadow it.
func (m *MissionState) CanCommence(w *State) bool { return true }

// Missioner is implemented by every mission-driven entity kind. HandleMission
// is the single per-kind override point; shared behavior lives in the layer
// fallbacks (footMission, technoMission).
type Missioner interface {
	ObjectLike
	Mis() *MissionState
	CanCommence(w *State) bool
	HandleMission(w *State, m Mission) int
}

// AssignMission queues a mission and immediately tries to commence it.
// Re-assigning the running mission is a no-op so a repeated order does not
// restart the handler's sub-state.
func AssignMission(w *State, m Missioner, mission Mission) {
	ms := m.Mis()
	if mission == ms.Mission {
		return
	}
	ms.Queue = mission
	CommenceMission(w, m)
}

// CommenceMission promotes the queued mission to current. The timer resets
// to zero so the new mission's handler runs on the very next dispatch; that
// eagerness is what makes fresh player orders feel immediate.
func CommenceMission(w *State, m Missioner) bool {
	ms := m.Mis()
	if ms.Queue == MissionNone {
		return false
	}
	if !m.CanCommence(w) {
		return false
	}
	ms.Mission = ms.Queue
	ms.Queue = MissionNone
	ms.Status = 0
	ms.Timer = 0
	return true
}

// OverrideMission replaces the current mission directly, saving the previous
// one in the suspend slot. Only the outermost override survives: a second
// override while one is pending keeps the originally suspended mission.
func OverrideMission(w *State, m Missioner, mission Mission, tarcom, navcom target.Target) {
	ms := m.Mis()
	if ms.Suspended == MissionNone {
		if ms.Queue != MissionNone {
			ms.Suspended = ms.Queue
		} else {
			ms.Suspended = ms.Mission
		}
	}
	ms.Mission = mission
	ms.Queue = MissionNone
	ms.Status = 0
	ms.Timer = 0
	if t, ok := m.(TechnoLike); ok && !tarcom.IsNone() {
		t.Tech().TarCom = tarcom
	}
	if f, ok := m.(FootLike); ok && !navcom.IsNone() {
		w.AssignDestination(f, navcom)
	}
}

// RestoreMission pops the suspend slot back to current. Returns false with
// no other effect when nothing was suspended.
func RestoreMission(m Missioner) bool {
	ms := m.Mis()
	if ms.Suspended == MissionNone {
		return false
	}
	ms.Mission = ms.Suspended
	ms.Suspended = MissionNone
	ms.Status = 0
	ms.Timer = 0
	return true
}

// DispatchMission is the per-tick driver: count the delay timer down, retry
// a blocked commencement, then run the handler for the current mission and
// stash its requested delay. An entity destroyed inside its own handler is
// left alone afterward.
func DispatchMission(w *State, m Missioner) {
	ms := m.Mis()
	if ms.Timer > 0 {
		ms.Timer--
	}
	if ms.Timer > 0 {
		return
	}
	CommenceMission(w, m)
	mission := ms.Mission
	if mission == MissionNone {
		mission = MissionSleep
	}
	self := m.Obj().Self
	delay := m.HandleMission(w, mission)
	if delay < 1 {
		delay = 1
	}
	if w.IsValid(self) {
		ms.Timer = delay
	}
}

// baseMission is the bottom of the handler fallback chain: every mission an
// entity does not specialize idles at a slow cadence.
func baseMission(w *State, m Missioner, mission Mission) int {
	switch mission {
	case MissionSleep, MissionAmbush:
		return delaySleep
	default:
		return delayIdle
	}
}
