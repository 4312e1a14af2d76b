package xraytrace

import "math"

// 4x4 homogeneous transform matrix (row-major).
type Mat4 struct {
	M [4][4]Real
}

func I4() Mat4 {
	return Mat4{M: [4][4]Real{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}}
}

func (A Mat4) Mul(B Mat4) Mat4 {
	var R Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += A.M[r][k] * B.M[k][c]
			}
			R.M[r][c] = sum
		}
	}
	return R
}

func (A Mat4) Transpose() Mat4 {
	var R Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			R.M[r][c] = A.M[c][r]
		}
	}
	return R
}

func (A Mat4) MulVec(v Vector4) Vector4 {
	return Vector4{
		A.M[0][0]*v.X + A.M[0][1]*v.Y + A.M[0][2]*v.Z + A.M[0][3]*v.W,
		A.M[1][0]*v.X + A.M[1][1]*v.Y + A.M[1][2]*v.Z + A.M[1][3]*v.W,
		A.M[2][0]*v.X + A.M[2][1]*v.Y + A.M[2][2]*v.Z + A.M[2][3]*v.W,
		A.M[3][0]*v.X + A.M[3][1]*v.Y + A.M[3][2]*v.Z + A.M[3][3]*v.W,
	}
}

func (A Mat4) MulPoint(p Point4) Point4 {
	return Point4{
		A.M[0][0]*p.X + A.M[0][1]*p.Y + A.M[0][2]*p.Z + A.M[0][3]*p.W,
		A.M[1][0]*p.X + A.M[1][1]*p.Y + A.M[1][2]*p.Z + A.M[1][3]*p.W,
		A.M[2][0]*p.X + A.M[2][1]*p.Y + A.M[2][2]*p.Z + A.M[2][3]*p.W,
		A.M[3][0]*p.X + A.M[3][1]*p.Y + A.M[3][2]*p.Z + A.M[3][3]*p.W,
	}
}

func rotX(a Real) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	M := I4()
	M.M[1][1], M.M[1][2] = c, -s
	M.M[2][1], M.M[2][2] = s, c
	return M
}

func rotY(a Real) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	M := I4()
	M.M[0][0], M.M[0][2] = c, s
	M.M[2][0], M.M[2][2] = -s, c
	return M
}

func rotZ(a Real) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	M := I4()
	M.M[0][0], M.M[0][1] = c, -s
	M.M[1][0], M.M[1][1] = s, c
	return M
}

// RotFromAngles composes intrinsic rotations about the global x, y and z
// axes, applied in that order.
func RotFromAngles(x, y, z Real) Mat4 {
	R := I4()
	R = rotX(x).Mul(R)
	R = rotY(y).Mul(R)
	R = rotZ(z).Mul(R)
	return R
}
