// Package dom binds the form controller to the browser DOM when built for
// js/wasm. The page must contain the elements named in package form; see
// cmd/skin-analyzer-wasm/index.html.
package dom
