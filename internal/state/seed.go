package state

import (
	"time"

	"github.com/vueltra/vueltra-property2-sub000/internal/model"
)

// Seed identifiers are fixed so the seed state is reproducible.
const (
	SeedAdminID    = "u-admin"
	SeedUserID     = "u-budi"
	SeedAdminEmail = "admin@vueltra.id"
)

var seedEpoch = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

func seedTime(days int) time.Time {
	return seedEpoch.AddDate(0, 0, days)
}

// Seed returns the built-in starting state. It is deterministic and has no side effects.
//
// Seed passwords sit in the legacy plaintext field and are hashed on first login.
func Seed() *AppState {
	st := &AppState{
		Users: []model.User{
			{
				ID:                 SeedAdminID,
				Username:           "Admin Vueltra",
				Email:              SeedAdminEmail,
				Phone:              "081200001234",
				Credits:            999999999,
				IsAdmin:            true,
				VerificationStatus: model.VerificationVerified,
				LegacyPassword:     "admin123",
				JoinedAt:           seedTime(0),
			},
			{
				ID:                 SeedUserID,
				Username:           "Budi Santoso",
				Email:              "budi@example.com",
				Phone:              "081355550000",
				Bio:                "Agen properti independen di Jakarta Selatan.",
				Credits:            150000,
				VerificationStatus: model.VerificationUnverified,
				LegacyPassword:     "budi123",
				JoinedAt:           seedTime(3),
			},
		},
		Listings: []model.Listing{
			{
				ID:              "l-kemang",
				Title:           "Rumah Modern Minimalis di Kemang",
				Description:     "Rumah dua lantai siap huni, dekat sekolah internasional dan pusat kuliner Kemang.",
				Price:           4500000000,
				Category:        model.CategoryRumah,
				TransactionType: model.TransactionJual,
				Status:          model.StatusActive,
				Location:        model.Location{Province: "DKI Jakarta", City: "Jakarta Selatan"},
				Address:         "Jl. Kemang Raya No. 12",
				LandArea:        200,
				BuildingArea:    180,
				Bedrooms:        4,
				Bathrooms:       3,
				Certificate:     "SHM",
				Images:          []string{"https://images.vueltra.id/seed/kemang-1.jpg"},
				SellerID:        SeedUserID,
				SellerName:      "Budi Santoso",
				IsPinned:        true,
				CreatedAt:       seedTime(5),
			},
			{
				ID:              "l-bsd-apartemen",
				Title:           "Apartemen Studio Dekat Stasiun BSD",
				Description:     "Unit studio full furnished, akses langsung ke stasiun dan mall.",
				Price:           4000000,
				Category:        model.CategoryApartemen,
				TransactionType: model.TransactionSewa,
				Status:          model.StatusActive,
				Location:        model.Location{Province: "Banten", City: "Tangerang Selatan"},
				Address:         "BSD City, Serpong",
				BuildingArea:    24,
				Bedrooms:        1,
				Bathrooms:       1,
				Certificate:     "Strata",
				Images:          []string{"https://images.vueltra.id/seed/bsd-1.jpg"},
				SellerID:        SeedUserID,
				SellerName:      "Budi Santoso",
				CreatedAt:       seedTime(8),
			},
			{
				ID:              "l-ubud-villa",
				Title:           "Villa View Sawah di Ubud",
				Description:     "Villa tiga kamar dengan kolam renang pribadi dan pemandangan sawah.",
				Price:           7800000000,
				Category:        model.CategoryVilla,
				TransactionType: model.TransactionJual,
				Status:          model.StatusActive,
				Location:        model.Location{Province: "Bali", City: "Gianyar"},
				Address:         "Jl. Raya Ubud",
				LandArea:        500,
				BuildingArea:    320,
				Bedrooms:        3,
				Bathrooms:       4,
				Certificate:     "SHM",
				Images:          []string{"https://images.vueltra.id/seed/ubud-1.jpg"},
				SellerID:        SeedAdminID,
				SellerName:      "Admin Vueltra",
				CreatedAt:       seedTime(10),
			},
		},
		Transactions: []model.Transaction{},
		Reports:      []model.ListingReport{},
		BlogPosts: []model.BlogPost{
			{
				ID:        "b-tips-kpr",
				Title:     "5 Tips Lolos Pengajuan KPR",
				Slug:      "5-tips-lolos-pengajuan-kpr",
				Excerpt:   "Persiapan dokumen dan riwayat kredit yang perlu diperhatikan sebelum mengajukan KPR.",
				Content:   "Sebelum mengajukan KPR, pastikan riwayat kredit bersih, siapkan slip gaji tiga bulan terakhir, dan hitung rasio cicilan maksimal 30% dari penghasilan.",
				ImageURL:  "https://images.vueltra.id/seed/blog-kpr.jpg",
				Author:    "Tim Vueltra",
				CreatedAt: seedTime(2),
				UpdatedAt: seedTime(2),
			},
			{
				ID:        "b-sertifikat",
				Title:     "Mengenal SHM, HGB, dan Strata Title",
				Slug:      "mengenal-shm-hgb-dan-strata-title",
				Excerpt:   "Perbedaan jenis sertifikat properti di Indonesia.",
				Content:   "SHM memberikan hak milik penuh, HGB memberi hak membangun untuk jangka waktu tertentu, sedangkan strata title berlaku untuk unit apartemen.",
				Author:    "Tim Vueltra",
				CreatedAt: seedTime(6),
				UpdatedAt: seedTime(6),
			},
		},
		Requests: []model.PropertyRequest{
			{
				ID:              "r-depok",
				Name:            "Siti Rahma",
				Phone:           "085711112222",
				Category:        model.CategoryRumah,
				TransactionType: model.TransactionSewa,
				Location:        model.Location{Province: "Jawa Barat", City: "Depok"},
				Budget:          3500000,
				Description:     "Mencari rumah kontrakan 2 kamar dekat UI.",
				CreatedAt:       seedTime(9),
			},
		},
		Settings: model.DefaultSettings(),
	}
	Migrate(st)
	return st
}
