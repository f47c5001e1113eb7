// Package automation runs Lua scripts that drive effect parameters block by
// block during offline rendering.
//
// A script defines a global function
//
//	function automate(t, block)
//	  return { ["ws.gain"] = 0.5 + 0.5 * math.sin(t) }
//	end
//
// that receives the block start time in seconds and the block index, and
// returns a table mapping parameter keys to numbers. Keys have the form
// "node.param"; a bare "param" addresses the default node.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// EntryPoint is the name of the Lua function called for every block.
const EntryPoint = "automate"

var (
	errNoEntryPoint = errors.New("automation: script does not define function " + EntryPoint)
	errBadValue     = errors.New("automation: bad parameter value")
)

// Script is a loaded automation script. It is not safe for concurrent use.
type Script struct {
	state *lua.LState
	fn    *lua.LFunction
}

// Load compiles and runs source, then looks up the automate function.
func Load(source string) (*Script, error) {
	state := lua.NewState(lua.Options{SkipOpenLibs: true})

	err := openLibs(state)
	if err != nil {
		state.Close()
		return nil, err
	}

	err = state.DoString(source)
	if err != nil {
		state.Close()
		return nil, fmt.Errorf("automation: load script: %w", err)
	}

	fn, ok := state.GetGlobal(EntryPoint).(*lua.LFunction)
	if !ok {
		state.Close()
		return nil, errNoEntryPoint
	}

	return &Script{state: state, fn: fn}, nil
}

// LoadFile reads a script from path and loads it.
func LoadFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("automation: read script: %w", err)
	}

	return Load(string(data))
}

// openLibs opens the side-effect free standard libraries only.
func openLibs(state *lua.LState) error {
	libs := []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}

	for _, lib := range libs {
		err := state.CallByParam(lua.P{
			Fn:      state.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name))
		if err != nil {
			return fmt.Errorf("automation: open %s: %w", lib.name, err)
		}
	}

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		state.SetGlobal(name, lua.LNil)
	}

	return nil
}

// Eval calls automate(t, block) and returns the parameter values it set.
// A nil return means no change. ctx cancels long-running scripts.
func (s *Script) Eval(ctx context.Context, t float64, block int) (map[string]float64, error) {
	s.state.SetContext(ctx)
	defer s.state.RemoveContext()

	err := s.state.CallByParam(lua.P{
		Fn:      s.fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(t), lua.LNumber(block))
	if err != nil {
		return nil, fmt.Errorf("automation: block %d: %w", block, err)
	}

	ret := s.state.Get(-1)
	s.state.Pop(1)

	if ret == lua.LNil {
		return map[string]float64{}, nil
	}

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: %s must return a table, got %s", errBadValue, EntryPoint, ret.Type())
	}

	values := make(map[string]float64, tbl.Len())

	var convErr error

	tbl.ForEach(func(k, v lua.LValue) {
		if convErr != nil {
			return
		}

		key, ok := k.(lua.LString)
		if !ok {
			convErr = fmt.Errorf("%w: key %v is not a string", errBadValue, k)
			return
		}

		num, ok := v.(lua.LNumber)
		if !ok || math.IsNaN(float64(num)) || math.IsInf(float64(num), 0) {
			convErr = fmt.Errorf("%w: %s = %v", errBadValue, key, v)
			return
		}

		values[string(key)] = float64(num)
	})

	if convErr != nil {
		return nil, convErr
	}

	return values, nil
}

// Close releases the Lua state.
func (s *Script) Close() {
	s.state.Close()
}

// Target receives automated values. effectchain.Chain implements it.
type Target interface {
	SetNodeParam(nodeID, key string, value float64) error
}

// Apply writes values to target in key order. Keys without a node prefix
// go to defaultNode.
func Apply(target Target, defaultNode string, values map[string]float64) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		node, param := SplitKey(k, defaultNode)
		if node == "" || param == "" {
			return fmt.Errorf("automation: cannot resolve key %q", k)
		}

		err := target.SetNodeParam(node, param, values[k])
		if err != nil {
			return err
		}
	}

	return nil
}

// SplitKey separates "node.param" into its parts. A key without a dot
// addresses defaultNode.
func SplitKey(key, defaultNode string) (string, string) {
	node, param, ok := strings.Cut(key, ".")
	if !ok {
		return defaultNode, key
	}

	return node, param
}
