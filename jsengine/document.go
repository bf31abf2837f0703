package jsengine

import (
	"strings"

	"github.com/dop251/goja"
	"golang.org/x/net/html"

	"github.com/jonwraymond/playground/dom"
)

// document exposes a dom.Document to scripts. Each node maps to exactly one
// script object, so identity comparisons hold across lookups. Element
// properties live on a shared prototype as non-enumerable accessors, which
// makes an element print as {} the way JSON.stringify shows DOM nodes.
type document struct {
	vm     *goja.Runtime
	doc    *dom.Document
	report func(error)

	proto  *goja.Object
	docObj *goja.Object
	nodes  map[*html.Node]*goja.Object
	objs   map[*goja.Object]*html.Node
}

func newDocument(vm *goja.Runtime, d *dom.Document, report func(error)) *document {
	x := &document{
		vm:     vm,
		doc:    d,
		report: report,
		nodes:  make(map[*html.Node]*goja.Object),
		objs:   make(map[*goja.Object]*html.Node),
	}
	x.proto = x.elementPrototype()
	x.docObj = x.documentObject()
	x.nodes[d.Root()] = x.docObj
	x.objs[x.docObj] = d.Root()
	return x
}

func (x *document) object() *goja.Object { return x.docObj }

func (x *document) documentObject() *goja.Object {
	o := x.vm.NewObject()
	root := x.doc.Root()
	x.method(o, "getElementById", func(call goja.FunctionCall) goja.Value {
		return x.wrap(x.doc.GetElementByID(call.Argument(0).String()))
	})
	x.method(o, "getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		return x.wrapAll(x.doc.GetElementsByClassName(call.Argument(0).String()))
	})
	x.method(o, "querySelector", func(call goja.FunctionCall) goja.Value {
		n, err := x.doc.QuerySelector(call.Argument(0).String())
		x.check(err)
		return x.wrap(n)
	})
	x.method(o, "querySelectorAll", func(call goja.FunctionCall) goja.Value {
		ns, err := x.doc.QuerySelectorAll(call.Argument(0).String())
		x.check(err)
		return x.wrapAll(ns)
	})
	x.method(o, "addEventListener", func(call goja.FunctionCall) goja.Value {
		return x.listen(root, call)
	})
	getter := x.vm.ToValue(func(goja.FunctionCall) goja.Value { return x.wrap(x.doc.Body()) })
	_ = o.DefineAccessorProperty("body", getter, nil, goja.FLAG_TRUE, goja.FLAG_FALSE)
	return o
}

func (x *document) elementPrototype() *goja.Object {
	p := x.vm.NewObject()

	x.accessor(p, "id", func(n *html.Node) goja.Value {
		return x.vm.ToValue(dom.ID(n))
	}, func(n *html.Node, v goja.Value) {
		dom.SetAttr(n, "id", v.String())
	})
	x.accessor(p, "tagName", func(n *html.Node) goja.Value {
		return x.vm.ToValue(dom.TagName(n))
	}, nil)
	x.accessor(p, "className", func(n *html.Node) goja.Value {
		v, _ := dom.Attr(n, "class")
		return x.vm.ToValue(v)
	}, func(n *html.Node, v goja.Value) {
		dom.SetAttr(n, "class", v.String())
	})
	for _, name := range []string{"textContent", "innerText"} {
		x.accessor(p, name, func(n *html.Node) goja.Value {
			return x.vm.ToValue(dom.TextContent(n))
		}, func(n *html.Node, v goja.Value) {
			dom.SetTextContent(n, v.String())
		})
	}
	x.accessor(p, "innerHTML", func(n *html.Node) goja.Value {
		return x.vm.ToValue(dom.InnerHTML(n))
	}, x.setInnerHTML)
	for _, name := range []string{"disabled", "hidden"} {
		x.accessor(p, name, func(n *html.Node) goja.Value {
			return x.vm.ToValue(dom.HasAttr(n, name))
		}, func(n *html.Node, v goja.Value) {
			dom.SetBoolAttr(n, name, v.ToBoolean())
		})
	}
	x.accessor(p, "value", func(n *html.Node) goja.Value {
		v, _ := dom.Attr(n, "value")
		return x.vm.ToValue(v)
	}, func(n *html.Node, v goja.Value) {
		dom.SetAttr(n, "value", v.String())
	})
	x.accessor(p, "style", func(n *html.Node) goja.Value {
		return x.vm.NewDynamicObject(&styleObject{vm: x.vm, n: n})
	}, nil)
	x.accessor(p, "classList", x.classList, nil)
	x.accessor(p, "parentElement", func(n *html.Node) goja.Value {
		return x.wrap(dom.ParentElement(n))
	}, nil)
	x.accessor(p, "children", func(n *html.Node) goja.Value {
		return x.wrapAll(dom.Children(n))
	}, nil)

	x.method(p, "getAttribute", func(call goja.FunctionCall) goja.Value {
		v, ok := dom.Attr(x.this(call), call.Argument(0).String())
		if !ok {
			return goja.Null()
		}
		return x.vm.ToValue(v)
	})
	x.method(p, "setAttribute", func(call goja.FunctionCall) goja.Value {
		dom.SetAttr(x.this(call), call.Argument(0).String(), call.Argument(1).String())
		return goja.Undefined()
	})
	x.method(p, "removeAttribute", func(call goja.FunctionCall) goja.Value {
		dom.RemoveAttr(x.this(call), call.Argument(0).String())
		return goja.Undefined()
	})
	x.method(p, "hasAttribute", func(call goja.FunctionCall) goja.Value {
		return x.vm.ToValue(dom.HasAttr(x.this(call), call.Argument(0).String()))
	})
	x.method(p, "closest", func(call goja.FunctionCall) goja.Value {
		n, err := dom.Closest(x.this(call), call.Argument(0).String())
		x.check(err)
		return x.wrap(n)
	})
	x.method(p, "matches", func(call goja.FunctionCall) goja.Value {
		ok, err := dom.Matches(x.this(call), call.Argument(0).String())
		x.check(err)
		return x.vm.ToValue(ok)
	})
	x.method(p, "querySelector", func(call goja.FunctionCall) goja.Value {
		n, err := dom.QuerySelector(x.this(call), call.Argument(0).String())
		x.check(err)
		return x.wrap(n)
	})
	x.method(p, "querySelectorAll", func(call goja.FunctionCall) goja.Value {
		ns, err := dom.QuerySelectorAll(x.this(call), call.Argument(0).String())
		x.check(err)
		return x.wrapAll(ns)
	})
	x.method(p, "getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		return x.wrapAll(dom.ElementsByClassName(x.this(call), call.Argument(0).String()))
	})
	x.method(p, "addEventListener", func(call goja.FunctionCall) goja.Value {
		return x.listen(x.this(call), call)
	})
	x.method(p, "click", func(call goja.FunctionCall) goja.Value {
		x.doc.Dispatch(x.this(call), &dom.Event{Type: "click"})
		return goja.Undefined()
	})
	return p
}

func (x *document) method(o *goja.Object, name string, fn func(goja.FunctionCall) goja.Value) {
	_ = o.Set(name, fn)
}

func (x *document) accessor(p *goja.Object, name string, get func(*html.Node) goja.Value, set func(*html.Node, goja.Value)) {
	getter := x.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return get(x.this(call))
	})
	var setter goja.Value
	if set != nil {
		setter = x.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			set(x.this(call), call.Argument(0))
			return goja.Undefined()
		})
	}
	_ = p.DefineAccessorProperty(name, getter, setter, goja.FLAG_TRUE, goja.FLAG_FALSE)
}

// this returns the node behind the receiver, throwing a TypeError for
// receivers that are not page elements.
func (x *document) this(call goja.FunctionCall) *html.Node {
	if obj, ok := call.This.(*goja.Object); ok {
		if n, ok := x.objs[obj]; ok {
			return n
		}
	}
	panic(x.vm.NewTypeError("Illegal invocation"))
}

func (x *document) wrap(n *html.Node) goja.Value {
	if n == nil {
		return goja.Null()
	}
	if obj, ok := x.nodes[n]; ok {
		return obj
	}
	obj := x.vm.NewObject()
	obj.SetPrototype(x.proto)
	x.nodes[n] = obj
	x.objs[obj] = n
	return obj
}

func (x *document) wrapAll(ns []*html.Node) goja.Value {
	items := make([]any, len(ns))
	for i, n := range ns {
		items[i] = x.wrap(n)
	}
	return x.vm.NewArray(items...)
}

// check throws a SyntaxError for selectors that do not compile.
func (x *document) check(err error) {
	if err == nil {
		return
	}
	if ctor, ok := goja.AssertConstructor(x.vm.Get("SyntaxError")); ok {
		if obj, cerr := ctor(nil, x.vm.ToValue(err.Error())); cerr == nil {
			panic(obj)
		}
	}
	panic(x.vm.NewTypeError(err.Error()))
}

func (x *document) listen(target *html.Node, call goja.FunctionCall) goja.Value {
	typ := call.Argument(0).String()
	fn, ok := goja.AssertFunction(call.Argument(1))
	if !ok {
		return goja.Undefined()
	}
	x.doc.AddEventListener(target, typ, func(ev *dom.Event) {
		if _, err := fn(x.wrap(ev.CurrentTarget), x.event(ev)); err != nil {
			x.report(err)
		}
	})
	return goja.Undefined()
}

func (x *document) event(ev *dom.Event) *goja.Object {
	o := x.vm.NewObject()
	_ = o.Set("type", ev.Type)
	_ = o.Set("target", x.wrap(ev.Target))
	_ = o.Set("currentTarget", x.wrap(ev.CurrentTarget))
	_ = o.Set("ctrlKey", ev.CtrlKey)
	_ = o.Set("metaKey", ev.MetaKey)
	if ev.Key != "" {
		_ = o.Set("key", ev.Key)
	} else {
		_ = o.Set("clientX", ev.ClientX)
		_ = o.Set("clientY", ev.ClientY)
	}
	_ = o.Set("preventDefault", func(goja.FunctionCall) goja.Value {
		ev.PreventDefault()
		return goja.Undefined()
	})
	_ = o.Set("stopPropagation", func(goja.FunctionCall) goja.Value {
		ev.StopPropagation()
		return goja.Undefined()
	})
	return o
}

func (x *document) classList(n *html.Node) goja.Value {
	o := x.vm.NewObject()
	_ = o.Set("length", len(dom.Classes(n)))
	_ = o.Set("add", func(call goja.FunctionCall) goja.Value {
		for _, a := range call.Arguments {
			dom.AddClass(n, a.String())
		}
		return goja.Undefined()
	})
	_ = o.Set("remove", func(call goja.FunctionCall) goja.Value {
		for _, a := range call.Arguments {
			dom.RemoveClass(n, a.String())
		}
		return goja.Undefined()
	})
	_ = o.Set("contains", func(call goja.FunctionCall) goja.Value {
		return x.vm.ToValue(dom.HasClass(n, call.Argument(0).String()))
	})
	_ = o.Set("toggle", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		if force := call.Argument(1); !goja.IsUndefined(force) {
			if force.ToBoolean() {
				dom.AddClass(n, name)
				return x.vm.ToValue(true)
			}
			dom.RemoveClass(n, name)
			return x.vm.ToValue(false)
		}
		return x.vm.ToValue(dom.ToggleClass(n, name))
	})
	return o
}

func (x *document) setInnerHTML(n *html.Node, v goja.Value) {
	nodes, err := html.ParseFragment(strings.NewReader(v.String()), n)
	if err != nil {
		panic(x.vm.NewGoError(err))
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	dom.Append(n, nodes...)
}

// styleObject is the element.style view over the inline style attribute.
// Property names are accepted in camel case and stored in CSS form.
type styleObject struct {
	vm *goja.Runtime
	n  *html.Node
}

func (s *styleObject) Get(key string) goja.Value {
	if key == "cssText" {
		v, _ := dom.Attr(s.n, "style")
		return s.vm.ToValue(v)
	}
	return s.vm.ToValue(dom.StyleProperty(s.n, dom.CSSName(key)))
}

func (s *styleObject) Set(key string, val goja.Value) bool {
	if key == "cssText" {
		dom.SetAttr(s.n, "style", val.String())
		return true
	}
	dom.SetStyleProperty(s.n, dom.CSSName(key), val.String())
	return true
}

func (s *styleObject) Has(key string) bool {
	return dom.StyleProperty(s.n, dom.CSSName(key)) != ""
}

func (s *styleObject) Delete(key string) bool {
	dom.SetStyleProperty(s.n, dom.CSSName(key), "")
	return true
}

func (s *styleObject) Keys() []string {
	decls := dom.Style(s.n)
	keys := make([]string, len(decls))
	for i, d := range decls {
		keys[i] = d[0]
	}
	return keys
}
