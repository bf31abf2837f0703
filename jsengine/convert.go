package jsengine

import (
	"strconv"

	"github.com/dop251/goja"

	"github.com/jonwraymond/playground/console"
)

// rawText is a value printed verbatim, such as a function's source.
type rawText string

func (t rawText) String() string { return string(t) }

// exportArgs converts console call arguments into values the console package
// formats. Top-level functions print as their source; objects and arrays are
// converted the way JSON.stringify sees them, so cycles throw a TypeError.
func exportArgs(vm *goja.Runtime, args []goja.Value) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		x := exporter{vm: vm, seen: make(map[*goja.Object]bool)}
		out[i] = x.top(arg)
	}
	return out
}

type exporter struct {
	vm   *goja.Runtime
	seen map[*goja.Object]bool
}

func (x *exporter) top(v goja.Value) any {
	if obj, ok := v.(*goja.Object); ok {
		if _, isFn := goja.AssertFunction(obj); isFn {
			return rawText(obj.String())
		}
	}
	return x.value(v)
}

func (x *exporter) value(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) {
		return console.Undefined
	}
	if goja.IsNull(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return primitive(v)
	}
	if _, isFn := goja.AssertFunction(obj); isFn {
		return console.Undefined
	}
	if toJSON, ok := goja.AssertFunction(obj.Get("toJSON")); ok {
		res, err := toJSON(obj)
		if err != nil {
			x.throw(err)
		}
		return x.value(res)
	}

	if x.seen[obj] {
		panic(x.vm.NewTypeError("Converting circular structure to JSON"))
	}
	x.seen[obj] = true
	defer delete(x.seen, obj)

	if obj.ClassName() == "Array" {
		n := int(obj.Get("length").ToInteger())
		items := make([]any, n)
		for i := range items {
			items[i] = x.value(obj.Get(strconv.Itoa(i)))
		}
		return items
	}

	keys := obj.Keys()
	fields := make(console.Object, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, console.Field{Key: k, Value: x.value(obj.Get(k))})
	}
	return fields
}

func (x *exporter) throw(err error) {
	if ex, ok := err.(*goja.Exception); ok {
		panic(ex.Value())
	}
	panic(x.vm.NewGoError(err))
}

func primitive(v goja.Value) any {
	switch val := v.Export().(type) {
	case string:
		return val
	case bool:
		return val
	case float64:
		return val
	case int64:
		return float64(val)
	default:
		return rawText(v.String())
	}
}
