package audio

import (
	"math"
	"testing"
)

func TestToPCM16_Empty(t *testing.T) {
	if out := ToPCM16(nil, nil); len(out) != 0 {
		t.Fatalf("expected empty output, got length %d", len(out))
	}
}

func TestToPCM16_AllZero(t *testing.T) {
	// 全零输入不能除零，输出必须全零
	out := ToPCM16([]float32{0, 0, 0}, nil)
	for i, s := range out {
		if s != 0 {
			t.Fatalf("index %d: expected 0, got %d", i, s)
		}
	}
}

func TestToPCM16_PeakNormalization(t *testing.T) {
	// max_val = 1.0, scale = 32767, 截断取整
	out := ToPCM16([]float32{0.5, -1.0, 0.25}, nil)
	want := []int16{16383, -32767, 8191}
	for i, w := range want {
		if out[i] != w {
			t.Errorf("index %d: got %d, want %d", i, out[i], w)
		}
	}
}

func TestToPCM16_QuietInputFloor(t *testing.T) {
	// 峰值低于 0.01 时分母保持 0.01，不把噪声放大到满幅
	out := ToPCM16([]float32{0.001}, nil)
	// 0.001 / 0.01 * 32767 ≈ 3276
	if diff := int(out[0]) - 3276; diff < -1 || diff > 1 {
		t.Fatalf("got %d, want ~3276", out[0])
	}
}

func TestToPCM16_LoudInputNormalized(t *testing.T) {
	// 峰值超过 1.0 的输入被归一化到满幅而不是溢出
	out := ToPCM16([]float32{2.0, -2.0}, nil)
	if out[0] != 32767 || out[1] != -32767 {
		t.Fatalf("got [%d, %d], want [32767, -32767]", out[0], out[1])
	}
}

func TestToPCM16_GainAttenuation(t *testing.T) {
	// -6.02 dB ≈ 半幅，增益在归一化之后施加
	gain := -20 * math.Log10(2)
	out := ToPCM16([]float32{1.0}, &gain)
	if diff := int(out[0]) - 16383; diff < -1 || diff > 1 {
		t.Fatalf("got %d, want ~16383", out[0])
	}
}

func TestToPCM16_GainBoostClamps(t *testing.T) {
	// 正增益导致超出范围时裁剪到 ±32767
	gain := 6.0
	out := ToPCM16([]float32{1.0, -1.0}, &gain)
	if out[0] != 32767 || out[1] != -32767 {
		t.Fatalf("got [%d, %d], want [32767, -32767]", out[0], out[1])
	}
}

func TestToPCM16_Deterministic(t *testing.T) {
	in := []float32{0.3, -0.7, 0.9, -0.2}
	a := ToPCM16(in, nil)
	b := ToPCM16(in, nil)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("index %d: %d != %d", i, a[i], b[i])
		}
	}
}

func TestBytesInt16_Roundtrip(t *testing.T) {
	samples := []int16{0, 1, -1, 1000, -1000, math.MaxInt16, math.MinInt16}
	b := Int16ToBytes(samples)
	result := BytesToInt16(b)
	if len(result) != len(samples) {
		t.Fatalf("length mismatch: expected %d, got %d", len(samples), len(result))
	}
	for i, s := range samples {
		if result[i] != s {
			t.Errorf("index %d: expected %d, got %d", i, s, result[i])
		}
	}
}

func TestInt16ToBytes_LittleEndian(t *testing.T) {
	out := Int16ToBytes([]int16{0x0102})
	if len(out) != 2 || out[0] != 0x02 || out[1] != 0x01 {
		t.Fatalf("expected [0x02, 0x01], got %v", out)
	}
}
