// Package lua runs user Lua scripts that react to word count updates.
//
// Scripts run in a sandboxed gopher-lua state with only the base, table,
// string and math libraries. A global wordcount module exposes the
// counting rules to scripts:
//
//	wordcount.count(text)                  -- number of words
//	wordcount.format(n)                    -- "1 Word", "3 Words"
//	wordcount.format_selection(sel, total) -- "2 of 3 Words"
//	wordcount.log(msg)                     -- write to the host log
//
// A script may define a global on_status function. Once the hooks are
// attached to the event bus, it is called after every status update:
//
//	function on_status(text, visible)
//	  if visible then wordcount.log("status: " .. text) end
//	end
package lua
