//go:build ignore

//kage:unit pixels

package main

const Pi = 3.141592653589793

// frame
var Time float
var WaveTime float
var Chroma vec3
var Morph float
var PointSize float
var BaseColor vec3
var Visual float
var Opacity float
var HasLogo float

// camera
var Resolution vec2
var TanHalfFov float
var CamPos vec3
var CamRight vec3
var CamUp vec3
var CamForward vec3

// mesh, axes are the columns of the rotation matrix
var MeshPos vec3
var MeshScale float
var MeshAxisX vec3
var MeshAxisY vec3
var MeshAxisZ vec3
var Radius float

// palette
var Emerald vec3
var Sky vec3
var DeepTeal vec3
var LightGreen vec3
var Ocean vec3
var Silver vec3
var Purple vec3
var Lavender vec3
var RoyalBlue vec3

// =====================================
// gradient noise
// =====================================

func mod289v3(x vec3) vec3 {
	return x - floor(x*(1.0/289.0))*289.0
}

func mod289v4(x vec4) vec4 {
	return x - floor(x*(1.0/289.0))*289.0
}

func permute(x vec4) vec4 {
	return mod289v4(((x * 34.0) + vec4(1.0)) * x)
}

func taylorInvSqrt(r vec4) vec4 {
	return vec4(1.79284291400159) - 0.85373472095314*r
}

func fade(t vec3) vec3 {
	return t * t * t * (t*(t*6.0-vec3(15.0)) + vec3(10.0))
}

func cnoise(p vec3) float {
	pi0 := floor(p)
	pi1 := pi0 + vec3(1.0)
	pi0 = mod289v3(pi0)
	pi1 = mod289v3(pi1)
	pf0 := fract(p)
	pf1 := pf0 - vec3(1.0)
	ix := vec4(pi0.x, pi1.x, pi0.x, pi1.x)
	iy := vec4(pi0.y, pi0.y, pi1.y, pi1.y)
	iz0 := vec4(pi0.z)
	iz1 := vec4(pi1.z)

	ixy := permute(permute(ix) + iy)
	ixy0 := permute(ixy + iz0)
	ixy1 := permute(ixy + iz1)

	gx0 := ixy0 * (1.0 / 7.0)
	gy0 := fract(floor(gx0)*(1.0/7.0)) - vec4(0.5)
	gx0 = fract(gx0)
	gz0 := vec4(0.5) - abs(gx0) - abs(gy0)
	sz0 := step(gz0, vec4(0.0))
	gx0 -= sz0 * (step(vec4(0.0), gx0) - vec4(0.5))
	gy0 -= sz0 * (step(vec4(0.0), gy0) - vec4(0.5))

	gx1 := ixy1 * (1.0 / 7.0)
	gy1 := fract(floor(gx1)*(1.0/7.0)) - vec4(0.5)
	gx1 = fract(gx1)
	gz1 := vec4(0.5) - abs(gx1) - abs(gy1)
	sz1 := step(gz1, vec4(0.0))
	gx1 -= sz1 * (step(vec4(0.0), gx1) - vec4(0.5))
	gy1 -= sz1 * (step(vec4(0.0), gy1) - vec4(0.5))

	g000 := vec3(gx0.x, gy0.x, gz0.x)
	g100 := vec3(gx0.y, gy0.y, gz0.y)
	g010 := vec3(gx0.z, gy0.z, gz0.z)
	g110 := vec3(gx0.w, gy0.w, gz0.w)
	g001 := vec3(gx1.x, gy1.x, gz1.x)
	g101 := vec3(gx1.y, gy1.y, gz1.y)
	g011 := vec3(gx1.z, gy1.z, gz1.z)
	g111 := vec3(gx1.w, gy1.w, gz1.w)

	norm0 := taylorInvSqrt(vec4(dot(g000, g000), dot(g010, g010), dot(g100, g100), dot(g110, g110)))
	g000 *= norm0.x
	g010 *= norm0.y
	g100 *= norm0.z
	g110 *= norm0.w
	norm1 := taylorInvSqrt(vec4(dot(g001, g001), dot(g011, g011), dot(g101, g101), dot(g111, g111)))
	g001 *= norm1.x
	g011 *= norm1.y
	g101 *= norm1.z
	g111 *= norm1.w

	n000 := dot(g000, pf0)
	n100 := dot(g100, vec3(pf1.x, pf0.y, pf0.z))
	n010 := dot(g010, vec3(pf0.x, pf1.y, pf0.z))
	n110 := dot(g110, vec3(pf1.x, pf1.y, pf0.z))
	n001 := dot(g001, vec3(pf0.x, pf0.y, pf1.z))
	n101 := dot(g101, vec3(pf1.x, pf0.y, pf1.z))
	n011 := dot(g011, vec3(pf0.x, pf1.y, pf1.z))
	n111 := dot(g111, pf1)

	f := fade(pf0)
	nz := mix(vec4(n000, n100, n010, n110), vec4(n001, n101, n011, n111), f.z)
	nyz := mix(nz.xy, nz.zw, f.y)
	return 1.2 * mix(nyz.x, nyz.y, f.x)
}

// =====================================
// displacement
// =====================================

// radius of the displaced surface in direction dir (unit, object space)
func surfaceRadius(dir vec3) float {
	return Radius + Morph*cnoise(dir+vec3(Time))
}

// =====================================
// color
// =====================================

func isVisual(v float) bool {
	return abs(Visual-v) < 0.5
}

func heightGradient(n vec3, low, mid, high, top vec3) vec3 {
	h := n.y*0.5 + 0.5
	if h > 0.6 {
		return mix(high, top, (h-0.6)*2.5)
	}
	if h > 0.4 {
		return mix(mid, high, (h-0.4)*5.0)
	}
	return mix(low, mid, h*2.5)
}

// premultiplied logo color at uv, v going up
func sampleLogo(uv vec2) vec4 {
	// logo:begin
	uv = clamp(uv, vec2(0.0), vec2(1.0))
	size := imageSrc0Size()
	pos := vec2(uv.x, 1.0-uv.y) * (size - vec2(1.0))
	return imageSrc0At(pos + imageSrc0Origin())
	// logo:end
}

func logoColor(n vec3) vec3 {
	phi := atan2(n.z, n.x)
	theta := acos(clamp(n.y, -1.0, 1.0))

	uv := vec2(0.5+phi/(2.0*Pi), 1.0-theta/Pi)

	s := sin(Time * 0.5)
	c := cos(Time * 0.5)
	ruv := vec2(
		0.5+(uv.x-0.5)*c-(uv.y-0.5)*s,
		0.5+(uv.x-0.5)*s+(uv.y-0.5)*c,
	)

	logo := sampleLogo(ruv)
	visibility := smoothstep(-0.2, 0.3, n.z)

	base := heightGradient(n, Ocean, Emerald, Silver, DeepTeal)
	base *= sin(Time*3.0)*0.1 + 0.9

	color := base*(1.0-logo.a*visibility) + logo.rgb*visibility

	rim := pow(1.0-max(n.z, 0.0), 2.0) * 0.7
	return color + vec3(rim)
}

func revolvingColor(n vec3, a0, a1, b0, b1, c0, c1, glow, shine vec3) vec3 {
	rt := Time * 6.0

	angle := atan2(n.y, n.x) + rt
	radius := length(n.xy)

	wave1 := sin(angle*8.0+rt*2.0)*0.5 + 0.5
	wave2 := cos(angle*6.0-rt*1.5)*0.5 + 0.5
	wave3 := sin(angle*4.0+rt)*0.5 + 0.5

	vertical := sin(n.y*10.0+rt)*0.5 + 0.5
	depth := (n.z + 1.0) * 0.5

	pattern := mix(mix(wave1, wave2, vertical), wave3, depth)

	color1 := mix(a0, a1, wave1)
	color2 := mix(b0, b1, wave2)
	color3 := mix(c0, c1, wave3)

	color := mix(mix(color1, color2, pattern), color3, depth)

	g := pow(max(1.0-radius, 0.0), 2.0) * 0.5
	color += glow * (g * 0.3)

	shimmer := sin(dot(n, vec3(rt*3.0)))*0.5 + 0.5
	color += shine * (shimmer * 0.1)

	return color
}

func shadeColor(n vec3) vec3 {
	var color vec3

	if isVisual(0.0) && HasLogo > 0.5 {
		color = logoColor(n)
	} else if isVisual(3.0) {
		final := revolvingColor(n,
			Emerald, Sky, DeepTeal, LightGreen, Ocean, Emerald,
			Sky, LightGreen)
		color = mix(BaseColor, final, 0.9)
	} else if isVisual(2.0) {
		color = revolvingColor(n,
			Purple, Lavender, RoyalBlue, DeepTeal, Ocean, Purple,
			Lavender, RoyalBlue)
	} else {
		color = heightGradient(n, Ocean, Emerald, LightGreen, DeepTeal)
	}

	// view direction is +z in object space
	fresnel := pow(1.0-max(n.z, 0.0), 3.0) * 0.3
	color += vec3(fresnel)

	lightDir := normalize(vec3(1.0, 1.0, 2.0))
	color *= max(dot(n, lightDir), 0.0)*0.7 + 0.3

	return clamp(color, vec3(0.0), vec3(1.0))
}

// =====================================
// ray march
// =====================================

func toObject(v vec3) vec3 {
	return vec3(dot(MeshAxisX, v), dot(MeshAxisY, v), dot(MeshAxisZ, v))
}

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	pos := dstPos.xy - imageDstOrigin()
	ndc := vec2(
		pos.x/Resolution.x*2.0-1.0,
		1.0-pos.y/Resolution.y*2.0,
	)
	aspect := Resolution.x / Resolution.y

	rd := normalize(CamForward + CamRight*(ndc.x*aspect*TanHalfFov) + CamUp*(ndc.y*TanHalfFov))

	// march in object space, where the sphere sits at the origin
	ro := toObject(CamPos-MeshPos) / MeshScale
	rd = normalize(toObject(rd))

	bound := Radius + abs(Morph)*1.2 + 0.01

	b := dot(ro, rd)
	c := dot(ro, ro) - bound*bound
	h := b*b - c
	if h < 0.0 {
		return vec4(0.0)
	}
	h = sqrt(h)
	tNear := max(-b-h, 0.0)
	tFar := -b + h
	if tFar < 0.0 {
		return vec4(0.0)
	}

	t := tNear
	hit := false
	for i := 0; i < 48; i++ {
		q := ro + rd*t
		l := length(q)
		d := l - surfaceRadius(q/max(l, 0.0001))
		if d < 0.005 {
			hit = true
			break
		}
		t += d * 0.8
		if t > tFar {
			break
		}
	}
	if !hit {
		return vec4(0.0)
	}

	n := normalize(ro + rd*t)
	c3 := shadeColor(n)

	return vec4(c3*Opacity, Opacity)
}
