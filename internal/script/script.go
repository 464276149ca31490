// Package script runs Lua automation scripts against a running system.
//
// A script sees one global table, snes:
//
//	snes.reg(name)         register value: pc pbr dbr a x y sp dp p mdr cycles frame
//	snes.read(addr)        byte at a 24-bit address, nil on open bus
//	snes.write(addr, v)    store a byte
//	snes.irq() snes.nmi()  raise an interrupt
//	snes.watch(addr)       add a memory watchpoint
//	snes.log(msg)          write to the emulator log
//	snes.stop()            ask the host to stop
//
// and may define on_frame(frame) and on_step(pc), called at the end of every
// frame and before every instruction.
package script

import (
	"log"
	"strings"

	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"

	"gosnes/internal/bus"
)

// Engine owns one Lua state bound to a bus
type Engine struct {
	state  *lua.LState
	bus    *bus.Bus
	logger *log.Logger

	onFrame *lua.LFunction
	onStep  *lua.LFunction

	stopRequested bool
	err           error
}

// New creates an engine with the snes table installed
func New(b *bus.Bus, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	e := &Engine{
		state:  lua.NewState(),
		bus:    b,
		logger: logger,
	}
	e.registerAPI()
	return e
}

func (e *Engine) registerAPI() {
	L := e.state
	api := L.NewTable()
	functions := map[string]lua.LGFunction{
		"reg":   e.luaReg,
		"read":  e.luaRead,
		"write": e.luaWrite,
		"irq":   e.luaIRQ,
		"nmi":   e.luaNMI,
		"watch": e.luaWatch,
		"log":   e.luaLog,
		"stop":  e.luaStop,
	}
	for name, fn := range functions {
		L.SetField(api, name, L.NewFunction(fn))
	}
	L.SetGlobal("snes", api)
}

// LoadFile runs a script file and picks up its hooks
func (e *Engine) LoadFile(path string) error {
	if err := e.state.DoFile(path); err != nil {
		return errors.Wrapf(err, "run script %s", path)
	}
	e.lookupHooks()
	return nil
}

// LoadString runs script source and picks up its hooks
func (e *Engine) LoadString(source string) error {
	if err := e.state.DoString(source); err != nil {
		return errors.Wrap(err, "run script")
	}
	e.lookupHooks()
	return nil
}

func (e *Engine) lookupHooks() {
	e.onFrame = e.function("on_frame")
	e.onStep = e.function("on_step")
}

func (e *Engine) function(name string) *lua.LFunction {
	if fn, ok := e.state.GetGlobal(name).(*lua.LFunction); ok {
		return fn
	}
	return nil
}

// Attach installs the script's hooks on the bus. A step hook is only
// installed when the script defines on_step.
func (e *Engine) Attach() {
	if e.onFrame != nil {
		e.bus.SetFrameCallback(e.OnFrame)
	}
	if e.onStep != nil {
		e.bus.SetStepCallback(e.OnStep)
	}
}

// OnFrame calls the script's on_frame hook
func (e *Engine) OnFrame(frame uint64) {
	e.call(e.onFrame, "on_frame", lua.LNumber(frame))
}

// OnStep calls the script's on_step hook
func (e *Engine) OnStep(pc uint32) {
	e.call(e.onStep, "on_step", lua.LNumber(pc))
}

// call runs a hook. The first error disables all hooks and is kept for Err.
func (e *Engine) call(fn *lua.LFunction, name string, args ...lua.LValue) {
	if fn == nil || e.err != nil {
		return
	}
	err := e.state.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	if err != nil {
		e.err = errors.Wrapf(err, "script hook %s", name)
		e.logger.Printf("[SCRIPT] %v; hooks disabled", e.err)
	}
}

// Err returns the first hook error
func (e *Engine) Err() error {
	return e.err
}

// StopRequested reports whether the script called snes.stop
func (e *Engine) StopRequested() bool {
	return e.stopRequested
}

// Close releases the Lua state
func (e *Engine) Close() {
	e.state.Close()
}

func (e *Engine) luaReg(L *lua.LState) int {
	name := strings.ToLower(L.CheckString(1))
	s := e.bus.GetCPUState()
	var value uint64
	switch name {
	case "pc":
		value = uint64(s.PC)
	case "pbr", "pb", "k":
		value = uint64(s.PBR)
	case "dbr", "db", "b":
		value = uint64(s.DBR)
	case "a", "c":
		value = uint64(s.A)
	case "x":
		value = uint64(s.X)
	case "y":
		value = uint64(s.Y)
	case "sp", "s":
		value = uint64(s.SP)
	case "dp", "d":
		value = uint64(s.DP)
	case "p":
		value = uint64(s.P)
	case "mdr":
		value = uint64(s.MDR)
	case "cycles":
		value = s.Cycles
	case "frame":
		value = e.bus.GetFrameCount()
	default:
		L.ArgError(1, "unknown register "+name)
		return 0
	}
	L.Push(lua.LNumber(value))
	return 1
}

func checkAddress(L *lua.LState, n int) uint32 {
	return uint32(L.CheckInt64(n)) & 0xFFFFFF
}

func (e *Engine) luaRead(L *lua.LState) int {
	value, ok := e.bus.Memory.Peek(checkAddress(L, 1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(value))
	return 1
}

func (e *Engine) luaWrite(L *lua.LState) int {
	address := checkAddress(L, 1)
	value := L.CheckInt(2)
	e.bus.Memory.Write(address, uint8(value))
	return 0
}

func (e *Engine) luaIRQ(L *lua.LState) int {
	e.bus.RaiseIRQ()
	return 0
}

func (e *Engine) luaNMI(L *lua.LState) int {
	e.bus.RaiseNMI()
	return 0
}

func (e *Engine) luaWatch(L *lua.LState) int {
	e.bus.AddMemoryWatchpoint(checkAddress(L, 1))
	return 0
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.logger.Printf("[SCRIPT] %s", L.CheckString(1))
	return 0
}

func (e *Engine) luaStop(L *lua.LState) int {
	e.stopRequested = true
	return 0
}
