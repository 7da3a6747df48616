package script

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/tidwall/gjson"
	lua "github.com/yuin/gopher-lua"
)

// toLua converts a channel payload to a Lua value. Scalars map directly,
// empty structs (signals) become nil and everything else goes through its
// JSON form.
func toLua(L *lua.LState, v any) lua.LValue {
	if v == nil {
		return lua.LNil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return lua.LBool(rv.Bool())
	case reflect.String:
		return lua.LString(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lua.LNumber(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lua.LNumber(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return lua.LNumber(rv.Float())
	case reflect.Struct:
		if rv.NumField() == 0 {
			return lua.LNil
		}
	}
	if err, ok := v.(error); ok {
		return lua.LString(err.Error())
	}

	b, err := json.Marshal(v)
	if err != nil {
		return lua.LString(fmt.Sprint(v))
	}
	return fromJSON(L, gjson.ParseBytes(b))
}

func fromJSON(L *lua.LState, r gjson.Result) lua.LValue {
	switch r.Type {
	case gjson.False, gjson.True:
		return lua.LBool(r.Bool())
	case gjson.Number:
		return lua.LNumber(r.Float())
	case gjson.String:
		return lua.LString(r.Str)
	case gjson.JSON:
		t := L.NewTable()
		if r.IsArray() {
			for _, item := range r.Array() {
				t.Append(fromJSON(L, item))
			}
			return t
		}
		r.ForEach(func(k, v gjson.Result) bool {
			t.RawSetString(k.String(), fromJSON(L, v))
			return true
		})
		return t
	default:
		return lua.LNil
	}
}

// fromLua converts a Lua value to plain Go values: bool, float64, string,
// []any or map[string]any.
func fromLua(lv lua.LValue) any {
	return fromLuaVisited(lv, make(map[*lua.LTable]bool))
}

func fromLuaVisited(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		return tableToGo(v, visited)
	default:
		return nil
	}
}

// tableToGo converts a sequence to []any and anything else to map[string]any.
func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	if n := t.Len(); n > 0 {
		count := 0
		t.ForEach(func(_, _ lua.LValue) { count++ })
		if count == n {
			out := make([]any, n)
			for i := 1; i <= n; i++ {
				out[i-1] = fromLuaVisited(t.RawGetInt(i), visited)
			}
			return out
		}
	}
	out := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		out[k.String()] = fromLuaVisited(v, visited)
	})
	return out
}

// convert shapes a value decoded from Lua into the payload type t. Numbers
// and strings convert directly; tables are decoded through JSON.
func convert(v any, t reflect.Type) (any, error) {
	if v == nil {
		return nil, nil
	}
	if t.Kind() == reflect.Struct && t.NumField() == 0 {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type() == t {
		return v, nil
	}
	if (isNumber(rv.Kind()) && isNumber(t.Kind())) || (rv.Kind() == reflect.String && t.Kind() == reflect.String) {
		return rv.Convert(t).Interface(), nil
	}
	if t.Kind() == reflect.Interface && rv.Type().Implements(t) {
		return v, nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	ptr := reflect.New(t)
	if err := json.Unmarshal(b, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("decode payload as %s: %w", t, err)
	}
	return ptr.Elem().Interface(), nil
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
