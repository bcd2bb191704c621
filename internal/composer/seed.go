package composer

import (
	"time"

	"github.com/barterup/barterupd/internal/avatar"
	"github.com/barterup/barterupd/internal/entities"
)

// SeedPosts returns the three demo posts appended to every feed so a fresh
// install never renders empty.
func SeedPosts() []entities.Post {
	now := time.Now()

	return []entities.Post{
		{
			ID:     "seed-1",
			UserID: "demo-user-1",
			Content: "Senang sekali memperkenalkan BarterUp ke komunitas lokal! 🎉\n" +
				"Kami percaya setiap orang memiliki keahlian unik yang bisa dibagikan.\n" +
				"Di BarterUp kamu dapat menukar skill memasak, berbahasa asing, hingga coding.\n" +
				"Baik kamu ingin belajar memasak resep tradisional maupun menguasai teknik debugging,\n" +
				"semuanya bisa bertukar secara langsung dengan tetangga atau teman baru.\n" +
				"Yuk, mulai perjalanan belajarmu dengan cara yang lebih dekat, terjangkau, dan sosial!",
			AuthorName:   "Rina Suryani",
			AuthorAvatar: avatar.FallbackW1,
			AuthorRole:   "Digital Art",
			PrimarySkill: "Digital Art",
			CreatedAt:    now,
		},
		{
			ID:     "seed-2",
			UserID: "demo-user-2",
			Content: "Halo teman BarterUp! Aku sedang mendalami bahasa Spanyol 🇪🇸 dan ingin bantu kalian desain konten visual.\n" +
				"Ayo bergabung untuk sesi tukar skill: aku ajarkan dasar-dasar tipografi dan layout,\n" +
				"kamu bisa ajari aku percakapan sehari-hari dalam bahasa Spanyol.\n" +
				"Kita bisa atur jadwal mingguan secara offline atau virtual sesuai kenyamanan.\n" +
				"Tingkatkan kreativitas dan kemampuan bahasa secara bersamaan! 📚✨",
			AuthorName:   "Agus Yuni",
			AuthorAvatar: avatar.FallbackMale1,
			AuthorRole:   "Graphic Design",
			PrimarySkill: "Graphic Design",
			CreatedAt:    now,
		},
		{
			ID:     "seed-3",
			UserID: "demo-user-3",
			Content: "Apakah kamu tertarik belajar dasar JavaScript untuk membangun website interaktif? 🚀\n" +
				"Gabung sesi coding virtual gratis setiap Sabtu jam 10:00 WIB.\n" +
				"Kita akan mulai dari dasar: variabel, fungsi, hingga manipulasi DOM sederhana.\n" +
				"Sempurna untuk pemula yang baru kenal programming atau yang ingin refresh kembali konsep.\n" +
				"Jangan lewatkan kesempatan ini untuk mengasah skill coding-mu dengan komunitas lokal BarterUp!",
			AuthorName:   "Dewi Kusuma",
			AuthorAvatar: avatar.FallbackW2,
			AuthorRole:   "Web Development",
			PrimarySkill: "Web Development",
			CreatedAt:    now,
		},
	}
}
