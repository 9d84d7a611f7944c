// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import (
	"container/heap"
	"math"
)

// DefaultCreaseAngle is the dihedral threshold, in degrees, above which a
// vertex counts as lying on a crease.
const DefaultCreaseAngle = 20.0

// ComputeCreaseDistance writes, for every vertex, the shortest edge-path
// length to a crease vertex. A vertex is on a crease when the largest angle
// between the normals of any two faces sharing it reaches thresholdDeg.
// Vertices with no path to a crease get +Inf.
//
// out must hold len(positions)/3 values.
func ComputeCreaseDistance(positions []float32, indices []uint32, thresholdDeg float64, out []float32) {
	n := len(positions) / 3
	faces := len(indices) / 3

	faceNormals := make([][3]float64, faces)
	for f := range faces {
		faceNormals[f] = faceNormal(positions, indices[f*3:f*3+3])
	}

	vertFaces := make([][]int32, n)
	for f := range faces {
		for _, v := range indices[f*3 : f*3+3] {
			vertFaces[v] = append(vertFaces[v], int32(f)) //nolint:gosec // face count fits int32
		}
	}

	threshold := thresholdDeg * math.Pi / 180
	onCrease := make([]bool, n)
	for v, fs := range vertFaces {
		var maxAngle float64
		for i := range fs {
			for j := i + 1; j < len(fs); j++ {
				a, b := faceNormals[fs[i]], faceNormals[fs[j]]
				dot := a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
				maxAngle = max(maxAngle, math.Acos(min(max(dot, -1), 1)))
			}
		}
		onCrease[v] = len(fs) >= 2 && maxAngle >= threshold
	}

	type edge struct {
		to     int32
		length float64
	}
	adj := make([][]edge, n)
	for f := range faces {
		tri := indices[f*3 : f*3+3]
		for e := range 3 {
			v1, v2 := int32(tri[e]), int32(tri[(e+1)%3]) //nolint:gosec // vertex count fits int32
			if v1 == v2 {
				continue
			}
			d := distance(positions, int(v1), int(v2))
			adj[v1] = append(adj[v1], edge{v2, d})
			adj[v2] = append(adj[v2], edge{v1, d})
		}
	}

	dist := make([]float64, n)
	pq := &vertexQueue{}
	for v := range n {
		dist[v] = math.Inf(1)
		if onCrease[v] {
			dist[v] = 0
			heap.Push(pq, queued{int32(v), 0}) //nolint:gosec // vertex count fits int32
		}
	}
	visited := make([]bool, n)
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(queued)
		if visited[cur.v] {
			continue
		}
		visited[cur.v] = true
		for _, e := range adj[cur.v] {
			if visited[e.to] {
				continue
			}
			if d := dist[cur.v] + e.length; d < dist[e.to] {
				dist[e.to] = d
				heap.Push(pq, queued{e.to, d})
			}
		}
	}

	for v := range n {
		out[v] = float32(dist[v])
	}
}

// faceNormal returns the unit normal of (B-A)×(C-A), or zero for a
// degenerate triangle.
func faceNormal(positions []float32, tri []uint32) [3]float64 {
	a, b, c := int(tri[0])*3, int(tri[1])*3, int(tri[2])*3
	var e1, e2 [3]float64
	for k := range 3 {
		e1[k] = float64(positions[b+k] - positions[a+k])
		e2[k] = float64(positions[c+k] - positions[a+k])
	}
	nrm := [3]float64{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
	l := math.Sqrt(nrm[0]*nrm[0] + nrm[1]*nrm[1] + nrm[2]*nrm[2])
	if l == 0 {
		return [3]float64{}
	}
	return [3]float64{nrm[0] / l, nrm[1] / l, nrm[2] / l}
}

func distance(positions []float32, v1, v2 int) float64 {
	dx := float64(positions[v1*3] - positions[v2*3])
	dy := float64(positions[v1*3+1] - positions[v2*3+1])
	dz := float64(positions[v1*3+2] - positions[v2*3+2])
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

type queued struct {
	v    int32
	dist float64
}

// vertexQueue is a min-heap on dist.
type vertexQueue []queued

func (q vertexQueue) Len() int           { return len(q) }
func (q vertexQueue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q vertexQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *vertexQueue) Push(x any)        { *q = append(*q, x.(queued)) }
func (q *vertexQueue) Pop() any {
	old := *q
	x := old[len(old)-1]
	*q = old[:len(old)-1]
	return x
}

// UpdateCreaseDistance recomputes the crease attribute from the current
// positions.
func (g *Grid) UpdateCreaseDistance(thresholdDeg float64) {
	if g.creases == nil {
		g.creases = make([]float32, g.VertexCount())
	}
	ComputeCreaseDistance(g.positions, g.indices, thresholdDeg, g.creases)
	g.dirty.Mark(AttrCrease)
}
