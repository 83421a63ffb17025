// Package script runs Lua breakpoint hooks against a running machine.
//
// A script may define on_step(pc); it is called after every step and a true
// return value asks the runner to stop. Scripts read state through reg(name),
// peek(addr) and now(), and write through log(msg).
package script

import (
	"errors"
	"fmt"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/cpu"
)

// Target is the machine a script inspects.
type Target interface {
	CPU() *cpu.CPU
	Peek(addr uint16) byte
	Now() uint64
}

// ErrNoHook is returned by OnStep when the script defines no on_step.
var ErrNoHook = errors.New("script: no on_step function")

type Engine struct {
	L      *lua.LState
	t      Target
	out    io.Writer
	onStep lua.LValue
}

var regByName = map[string]cpu.Reg{
	"a": cpu.RegA, "f": cpu.RegF, "b": cpu.RegB, "c": cpu.RegC,
	"d": cpu.RegD, "e": cpu.RegE, "h": cpu.RegH, "l": cpu.RegL,
	"af": cpu.RegAF, "bc": cpu.RegBC, "de": cpu.RegDE, "hl": cpu.RegHL, "sp": cpu.RegSP,
}

// Load compiles and runs src once, so top-level statements execute and
// on_step gets defined. log output goes to out (nil discards it).
func Load(t Target, src string, out io.Writer) (*Engine, error) {
	e := newEngine(t, out)
	if err := e.L.DoString(src); err != nil {
		e.Close()
		return nil, fmt.Errorf("script: %w", err)
	}
	e.onStep = e.L.GetGlobal("on_step")
	return e, nil
}

// LoadFile is Load for a script on disk.
func LoadFile(t Target, path string, out io.Writer) (*Engine, error) {
	e := newEngine(t, out)
	if err := e.L.DoFile(path); err != nil {
		e.Close()
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	e.onStep = e.L.GetGlobal("on_step")
	return e, nil
}

func newEngine(t Target, out io.Writer) *Engine {
	if out == nil {
		out = io.Discard
	}
	e := &Engine{L: lua.NewState(), t: t, out: out}
	e.L.SetGlobal("reg", e.L.NewFunction(e.luaReg))
	e.L.SetGlobal("peek", e.L.NewFunction(e.luaPeek))
	e.L.SetGlobal("now", e.L.NewFunction(e.luaNow))
	e.L.SetGlobal("log", e.L.NewFunction(e.luaLog))
	return e
}

func (e *Engine) HasStepHook() bool { return e.onStep.Type() == lua.LTFunction }

// OnStep calls on_step(pc) and reports whether the script asked to break.
func (e *Engine) OnStep() (bool, error) {
	if !e.HasStepHook() {
		return false, ErrNoHook
	}
	err := e.L.CallByParam(lua.P{Fn: e.onStep, NRet: 1, Protect: true}, lua.LNumber(e.t.CPU().PC))
	if err != nil {
		return false, fmt.Errorf("on_step: %w", err)
	}
	ret := e.L.Get(-1)
	e.L.Pop(1)
	return lua.LVAsBool(ret), nil
}

func (e *Engine) Close() { e.L.Close() }

// reg(name) -> number; names are case-insensitive, plus "pc" and "ime".
func (e *Engine) luaReg(L *lua.LState) int {
	name := strings.ToLower(L.CheckString(1))
	c := e.t.CPU()
	switch name {
	case "pc":
		L.Push(lua.LNumber(c.PC))
		return 1
	case "ime":
		L.Push(lua.LBool(c.IME))
		return 1
	}
	r, ok := regByName[name]
	if !ok {
		L.ArgError(1, "unknown register "+name)
		return 0
	}
	var v uint16
	if r >= cpu.RegAF {
		v, _ = c.Get16(r)
	} else {
		b, _ := c.Get8(r)
		v = uint16(b)
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (e *Engine) luaPeek(L *lua.LState) int {
	addr := L.CheckInt(1)
	if addr < 0 || addr > 0xFFFF {
		L.ArgError(1, "address out of range")
		return 0
	}
	L.Push(lua.LNumber(e.t.Peek(uint16(addr))))
	return 1
}

func (e *Engine) luaNow(L *lua.LState) int {
	L.Push(lua.LNumber(e.t.Now()))
	return 1
}

func (e *Engine) luaLog(L *lua.LState) int {
	fmt.Fprintln(e.out, L.CheckString(1))
	return 0
}
