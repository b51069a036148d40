package videoid

import "testing"

func TestFromFilename_Corpus(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"TA01 yVebIlvkOnU.xml", "yVebIlvkOnU"},
		{"TA02 5AkWHfJV8RQ.xml", "5AkWHfJV8RQ"},
		{"TA03 Nz3OeyRyUfE.xml", "Nz3OeyRyUfE"},
		{"TA04 MnBL8LY4kgc.xml", "MnBL8LY4kgc"},
		{"TA05 ccmNrLmG-6U.xml", "ccmNrLmG-6U"},
		{"TA06 SQ4VCOT5w-w.xml", "SQ4VCOT5w-w"},
		{"TA07 5JQBACKTLO8.xml", "5JQBACKTLO8"},
		{"TA08 LyGdkID_EOg.xml", "LyGdkID_EOg"},
		{"TA09 _EIxIlpqRio.xml", "_EIxIlpqRio"},
		{"TA10 KdSImTQRQEA.xml", "KdSImTQRQEA"},
		{"TA11 xizooMsqv5s.xml", "xizooMsqv5s"},
		{"TA12 bKPrAyI95dM.xml", "bKPrAyI95dM"},
		{"TA13 bvH-4uA_9-Q.xml", "bvH-4uA_9-Q"},
		{"TA14 esNIoSleZqA.xml", "esNIoSleZqA"},
		{"TA15 texlhDSgVRc.xml", "texlhDSgVRc"},
		{"TA16 FMAjPmAmYYY.xml", "FMAjPmAmYYY"},
		{"TA17 1w0GG4LO9Xs.xml", "1w0GG4LO9Xs"},
		{"TA18 UwudycbD3oo.xml", "UwudycbD3oo"},
		{"TA19 dJLI81Ydo84.xml", "dJLI81Ydo84"},
		{"TA20 KiTQRP1KK0U.xml", "KiTQRP1KK0U"},
		{"TA21 AVf-W6MkqA0.xml", "AVf-W6MkqA0"},
		{"TA22 5j4gwujTVjg.xml", "5j4gwujTVjg"},
		{"TA23 iTQK5q5RoUw.xml", "iTQK5q5RoUw"},
		{"TA24 sncgDs4YBpo.xml", "sncgDs4YBpo"},
		{"TA25 akGnLUy6aWU.xml", "akGnLUy6aWU"},
		{"TA26 bQltg0Hwq84.xml", "bQltg0Hwq84"},
		{"TA27 bPUSj_brL6w.xml", "bPUSj_brL6w"},
		{"TA28 RpIRRZjL40g.xml", "RpIRRZjL40g"},
		{"TA29 QqCFr0w2Z18.xml", "QqCFr0w2Z18"},
		{"TA30 rlZRFsPpCyQ.xml", "rlZRFsPpCyQ"},
		{"TA31 1nIr4OsRGvM.xml", "1nIr4OsRGvM"},
		{"TA32 ZYgBT9_Oi54.xml", "ZYgBT9_Oi54"},
		{"TA33 FzD4oiaYAZQ.xml", "FzD4oiaYAZQ"},
		{"TA34 w0TWWHDSdFE.xml", "w0TWWHDSdFE"},
		{"TA35 -3h0wRZq_1I.xml", "-3h0wRZq_1I"},
		{"TA36 -BdkyO3SgJA.xml", "-BdkyO3SgJA"},
		{"TA37 5AtSNnxBxE4.xml", "5AtSNnxBxE4"},
		{"TA38 eOz7LM6DYRM.xml", "eOz7LM6DYRM"},
		{"TA39 05TL_bQF0os.xml", "05TL_bQF0os"},
		{"TA40 GcPZcM7qYQQ.xml", "GcPZcM7qYQQ"},
		{"TA41 kEvQU8A2veo.xml", "kEvQU8A2veo"},
		{"TA42 AVDMgPeEHpU.xml", "AVDMgPeEHpU"},
		{"TA43 4t0j7xOF0os.xml", "4t0j7xOF0os"},
		{"TA44 hf9bnHws0X8.xml", "hf9bnHws0X8"},
		{"TA45 JErgINI4lMg.xml", "JErgINI4lMg"},
		{"TA46 HNgX-S85cuc.xml", "HNgX-S85cuc"},
		{"TA47 u4i5OTVZxvE.xml", "u4i5OTVZxvE"},
		{"TA48 XxYu8eAqC5U.xml", "XxYu8eAqC5U"},
		{"TA49 OLc9gKhKADg.xml", "OLc9gKhKADg"},
		{"TA50 ZciilZf1spU.xml", "ZciilZf1spU"},
		{"TA51 AAA_NxhT-Zw.xml", "AAA_NxhT-Zw"},
		{"TA52 pHT-afoqzt8.xml", "pHT-afoqzt8"},
		{"TA53 Ow_ssg5gTgo.xml", "Ow_ssg5gTgo"},
		{"TA54 ONN-aTxrhck.xml", "ONN-aTxrhck"},
		{"TA55 Y7gaVAHxzE0.xml", "Y7gaVAHxzE0"},
		{"TA56 x7rfiStC_rg.xml", "x7rfiStC_rg"},
		{"TA57 q01JoAIS0Ww.xml", "q01JoAIS0Ww"},
		{"TA58 T6GxHvVIbhk.xml", "T6GxHvVIbhk"},
		{"TA59 pO-oIZbQnqQ.xml", "pO-oIZbQnqQ"},
		{"TA60 c0CtvZKz2zw.xml", "c0CtvZKz2zw"},
		{"TA61 F87N3uM33p0.xml", "F87N3uM33p0"},
		{"TA62 x6V9YYEVPpc.xml", "x6V9YYEVPpc"},
		{"TA63 DY1YtV9-Z1c.xml", "DY1YtV9-Z1c"},
		{"TA64 -wtvbB-moOE.xml", "-wtvbB-moOE"},
		{"TA65 IDD8kv-VnaI.xml", "IDD8kv-VnaI"},
		{"TA66 nEcIafhGKh8.xml", "nEcIafhGKh8"},
		{"TA67 mMrZT2GzeKA.xml", "mMrZT2GzeKA"},
		{"TUBE-ADVENTURES (aventura interactiva) BckqqsJiDUI.xml", "BckqqsJiDUI"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := FromFilename(tt.path, ".xml")
			if !ok || got != tt.want {
				t.Errorf("FromFilename(%q) = %q, %v; want %q", tt.path, got, ok, tt.want)
			}
		})
	}
}

func TestFromFilename(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		ext    string
		want   string
		wantOK bool
	}{
		{"nested path", "/data/TUBE-ADVENTURES/TA01 yVebIlvkOnU.xml", ".xml", "yVebIlvkOnU", true},
		{"short stem", "short.xml", ".xml", "", false},
		{"id only", "yVebIlvkOnU.xml", ".xml", "", false},
		{"wrong extension", "TA01 yVebIlvkOnU.json", ".xml", "", false},
		{"extension case", "TA01 yVebIlvkOnU.XML", ".xml", "", false},
		{"no extension", "TA01 yVebIlvkOnU", ".xml", "", false},
		{"no space", "TA01_yVebIlvkOnU.xml", ".xml", "", false},
		{"id too long", "TA01 yVebIlvkOnUx.xml", ".xml", "", false},
		{"id too short", "TA01 yVebIlvkOn.xml", ".xml", "", false},
		{"trailing space", "TA01 yVebIlvkOnU .xml", ".xml", "", false},
		{"other extension configured", "TA01 yVebIlvkOnU.mp4", ".mp4", "yVebIlvkOnU", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromFilename(tt.path, tt.ext)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("FromFilename(%q, %q) = %q, %v; want %q, %v", tt.path, tt.ext, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFromURL(t *testing.T) {
	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=MnBL8LY4kgc", "MnBL8LY4kgc", true},
		{"https://www.youtube.com/watch?annotation_id=annotation_671574&ei=hKMCXMeuJIG5Va7bkYAJ&feature=iv&src_vid=BckqqsJiDUI&v=yVebIlvkOnU", "yVebIlvkOnU", true},
		{"https://www.youtube.com/watch?annotation_id=annotation_776505&ei=hKMCXMeuJIG5Va7bkYAJ&feature=iv&src_vid=BckqqsJiDUI&v=MnBL8LY4kgc", "MnBL8LY4kgc", true},
		{"https://www.youtube.com/watch?v=MnBL8LY4kgc&t=10", "MnBL8LY4kgc", true},
		{"https://www.youtube.com/watch?v=short&v=5AkWHfJV8RQ", "short&v=5Ak", true},
		{"https://www.youtube.com/watch?v=a b&v=5AkWHfJV8RQ", "5AkWHfJV8RQ", true},
		{"watch?v=a b c d e f watch?v=5AkWHfJV8RQ", "5AkWHfJV8RQ", true},
		{"https://www.youtube.com/watch?v=short", "", false},
		{"https://www.youtube.com/user/tubeadventures", "", false},
		{"http://example.com/?video=MnBL8LY4kgc", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := FromURL(tt.url)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("FromURL(%q) = %q, %v; want %q, %v", tt.url, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCanonicalURL(t *testing.T) {
	got, ok := CanonicalURL("BckqqsJiDUI")
	if !ok || got != "https://www.youtube.com/watch?v=BckqqsJiDUI" {
		t.Errorf("CanonicalURL(BckqqsJiDUI) = %q, %v", got, ok)
	}

	for _, id := range []string{"", "short", "BckqqsJiDUIx"} {
		if got, ok := CanonicalURL(id); ok {
			t.Errorf("CanonicalURL(%q) = %q, want failure", id, got)
		}
	}
}

func TestCanonicalURLRoundTrip(t *testing.T) {
	for _, id := range []string{"yVebIlvkOnU", "-3h0wRZq_1I", "bvH-4uA_9-Q"} {
		u, ok := CanonicalURL(id)
		if !ok {
			t.Fatalf("CanonicalURL(%q) failed", id)
		}
		got, ok := FromURL(u)
		if !ok || got != id {
			t.Errorf("FromURL(CanonicalURL(%q)) = %q, %v", id, got, ok)
		}
	}
}
