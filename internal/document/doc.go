// Package document models the two printable faces of an ID card.
//
// A Document owns a front and a back Side. Each Side bundles its ordered
// shape list with the canvas Settings used to render it. Sides never share
// shapes by reference; copying in and out goes through shape.CloneAll.
package document
