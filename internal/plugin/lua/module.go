package lua

import (
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/wordcount/internal/counter"
)

// ModuleName is the global name of the scripting module.
const ModuleName = "wordcount"

func moduleFuncs(logger *slog.Logger) map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"count": func(L *lua.LState) int {
			L.Push(lua.LNumber(counter.CountWords(L.CheckString(1))))
			return 1
		},
		"format": func(L *lua.LState) int {
			L.Push(lua.LString(counter.FormatDocument(L.CheckInt(1))))
			return 1
		},
		"format_selection": func(L *lua.LState) int {
			L.Push(lua.LString(counter.FormatSelection(L.CheckInt(1), L.CheckInt(2))))
			return 1
		},
		"log": func(L *lua.LState) int {
			logger.Info(L.CheckString(1), "source", "lua")
			return 0
		},
	}
}
