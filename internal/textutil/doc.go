// Package textutil holds small string helpers shared by the rename pipeline.
package textutil
