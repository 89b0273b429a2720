package repository

import (
	"time"

	"github.com/alpercimsit/emlak-website/internal/model"
)

// ExampleListing is the record loaded at startup when seeding is enabled.
func ExampleListing(now time.Time) model.Listing {
	created := model.NewDateTime(now)
	return model.Listing{
		IlanTarihi: &created,
		Baslik:     "Örnek Daire",
		EmlakTipi:  model.Ptr("Daire"),
		Fiyat:      model.Ptr(int64(1500000)),
		Detay:      "Merkezi konumda 2+1",
		M2:         model.Ptr(95),
		Il:         model.Ptr("İstanbul"),
		Ilce:       model.Ptr("Fatih"),
		Mahalle:    model.Ptr("Sultanahmet"),
		OdaSayisi:  "2+1",
		Isitma:     "Kombi",
		Balkon:     model.Ptr(true),
		Asansor:    model.Ptr(false),
		Esyali:     model.Ptr(false),
		Fotolar:    "https://picsum.photos/400",
	}
}

// Seed stores the example listing when the collection is empty.
func (r *ListingRepository) Seed(now time.Time) {
	if r.Count() > 0 {
		return
	}
	r.Create(ExampleListing(now))
}
