package calibration

import "github.com/Shopify/go-lua"

// tableToMap converts the string-keyed entries of the table at index.
func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

// luaToGo converts numbers to float64, sequences to []any and other tables
// to map[string]any.
func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return value
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

func tableToGo(state *lua.State, index int) any {
	index = state.AbsIndex(index)
	length := state.RawLength(index)
	if length == 0 {
		return tableToMap(state, index)
	}

	items := make([]any, 0, length)
	for i := 1; i <= length; i++ {
		state.RawGetInt(index, i)
		items = append(items, luaToGo(state, -1))
		state.Pop(1)
	}
	return items
}
