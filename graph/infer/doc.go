// Package infer implements the Type Inferencer: it fills in
// ModelParameter/ModelInputSchema/ModelOutputSchema/ModelResource for graph
// nodes that lack them, by aggregating the declarations carried by every
// connected MODEL node.
package infer
