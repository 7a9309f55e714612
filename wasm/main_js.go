//go:build js && wasm

package main

import (
	"log"
	"syscall/js"

	"github.com/voxelsplace/meshvox/api"
)

func bytesFromJS(v js.Value) []byte {
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf
}

func bytesToJS(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

// mesh2vxs(bytes, format, step, fill)
func mesh2vxs(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return js.ValueOf("usage: mesh2vxs(bytes, format, step, fill)")
	}
	fill := len(args) > 3 && args[3].Truthy()
	out, err := api.MeshToVXS(bytesFromJS(args[0]), args[1].String(), args[2].Float(), fill)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(out)
}

// vxs2glb(bytes, greedy)
func vxs2glb(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing vxs bytes")
	}
	greedy := len(args) > 1 && args[1].Truthy()
	out, err := api.VXSToGLB(bytesFromJS(args[0]), greedy)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(out)
}

// vxs2mesh(bytes, format)
func vxs2mesh(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("usage: vxs2mesh(bytes, format)")
	}
	out, err := api.VXSToMesh(bytesFromJS(args[0]), args[1].String())
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(out)
}

func packVxs(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing files object")
	}
	filesObj := args[0]
	files := map[string][]byte{}
	keys := js.Global().Get("Object").Call("keys", filesObj)
	for i := 0; i < keys.Length(); i++ {
		k := keys.Index(i).String()
		files[k] = bytesFromJS(filesObj.Get(k))
	}
	out, err := api.PackVXS(files)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(out)
}

func unpackVxpack(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing pack bytes")
	}
	files, err := api.UnpackVXSPack(bytesFromJS(args[0]))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	// names -> Uint8Array
	result := js.Global().Get("Object").New()
	for name, b := range files {
		result.Set(name, bytesToJS(b))
	}
	return result
}

func main() {
	js.Global().Set("mesh2vxs", js.FuncOf(mesh2vxs))
	js.Global().Set("vxs2glb", js.FuncOf(vxs2glb))
	js.Global().Set("vxs2mesh", js.FuncOf(vxs2mesh))
	js.Global().Set("packVxs", js.FuncOf(packVxs))
	js.Global().Set("unpackVxpack", js.FuncOf(unpackVxpack))
	log.Println("meshvox wasm ready")
	select {}
}
