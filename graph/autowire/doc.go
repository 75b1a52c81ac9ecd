// Package autowire implements the Parameter Auto-Wirer: for every MODEL
// node, it ensures each model-declared parameter is connected to a
// PARAMETER node, synthesizing one when the flow did not declare it
// explicitly.
package autowire
