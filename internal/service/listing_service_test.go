package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpercimsit/emlak-website/internal/logging"
	"github.com/alpercimsit/emlak-website/internal/model"
	"github.com/alpercimsit/emlak-website/internal/repository"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)

func at(days int) *model.DateTime {
	d := model.NewDateTime(baseTime.AddDate(0, 0, days))
	return &d
}

func newTestListings(t *testing.T, listings ...model.Listing) *ListingService {
	t.Helper()
	repo := repository.NewListingRepository()
	for _, l := range listings {
		repo.Create(l)
	}
	return NewListingService(repo, logging.Discard())
}

func fixture(t *testing.T) *ListingService {
	return newTestListings(t,
		model.Listing{Baslik: "A", Fiyat: model.Ptr(int64(2000000)), EmlakTipi: model.Ptr("Daire"), Il: model.Ptr("İstanbul"), Ilce: model.Ptr("Kadıköy"), IlanTarihi: at(3)},
		model.Listing{Baslik: "B", Fiyat: model.Ptr(int64(900000)), EmlakTipi: model.Ptr("Arsa"), Il: model.Ptr("Ankara"), Ilce: model.Ptr("Çankaya"), IlanTarihi: at(1)},
		model.Listing{Baslik: "C", Fiyat: nil, EmlakTipi: model.Ptr("Daire"), Il: model.Ptr("Izmir"), IlanTarihi: nil},
		model.Listing{Baslik: "D", Fiyat: model.Ptr(int64(1000000)), EmlakTipi: model.Ptr("Villa"), Il: model.Ptr("Izmir"), Ilce: model.Ptr("Karsiyaka"), IlanTarihi: at(2)},
		model.Listing{Baslik: "E", Fiyat: model.Ptr(int64(1500000)), EmlakTipi: model.Ptr("Daire"), Il: model.Ptr("Ankara"), Ilce: model.Ptr("Yenimahalle"), IlanTarihi: at(5), Gizli: true},
	)
}

func titles(listings []model.Listing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.Baslik)
	}
	return out
}

func TestParseSortOrder(t *testing.T) {
	tests := map[string]SortOrder{
		"":          SortPriceAsc,
		"priceAsc":  SortPriceAsc,
		"PRICEDESC": SortPriceDesc,
		"dateAsc":   SortDateAsc,
		"datedesc":  SortDateDesc,
		"bogus":     SortPriceAsc,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseSortOrder(in), in)
	}
}

func TestList_DefaultSortsByPriceAscNullsLast(t *testing.T) {
	svc := fixture(t)

	got := svc.List(ListingQuery{})
	assert.Equal(t, []string{"B", "D", "A", "C"}, titles(got))

	for i := 1; i < len(got); i++ {
		if got[i].Fiyat == nil {
			continue
		}
		require.NotNil(t, got[i-1].Fiyat)
		assert.LessOrEqual(t, *got[i-1].Fiyat, *got[i].Fiyat)
	}
}

func TestList_Sorts(t *testing.T) {
	svc := fixture(t)

	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortPriceDesc, []string{"A", "D", "B", "C"}},
		{SortDateAsc, []string{"B", "D", "A", "C"}},
		{SortDateDesc, []string{"A", "D", "B", "C"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			assert.Equal(t, tt.want, titles(svc.List(ListingQuery{Sort: tt.order})))
		})
	}
}

func TestList_DateDescIsNonIncreasing(t *testing.T) {
	got := fixture(t).List(ListingQuery{Sort: SortDateDesc, IncludeHidden: true})
	for i := 1; i < len(got); i++ {
		if got[i].IlanTarihi == nil {
			continue
		}
		require.NotNil(t, got[i-1].IlanTarihi)
		assert.False(t, got[i-1].IlanTarihi.Before(got[i].IlanTarihi.Time))
	}
}

func TestList_DateSortOutsideNanosecondRange(t *testing.T) {
	dated := func(year int) *model.DateTime {
		d := model.NewDateTime(time.Date(year, 1, 1, 0, 0, 0, 0, time.Local))
		return &d
	}
	svc := newTestListings(t,
		model.Listing{Baslik: "2024", IlanTarihi: dated(2024)},
		model.Listing{Baslik: "2300", IlanTarihi: dated(2300)},
		model.Listing{Baslik: "1600", IlanTarihi: dated(1600)},
	)

	assert.Equal(t, []string{"2300", "2024", "1600"}, titles(svc.List(ListingQuery{Sort: SortDateDesc})))
	assert.Equal(t, []string{"1600", "2024", "2300"}, titles(svc.List(ListingQuery{Sort: SortDateAsc})))
}

func TestList_StableForEqualKeys(t *testing.T) {
	svc := newTestListings(t,
		model.Listing{Baslik: "first", Fiyat: model.Ptr(int64(5))},
		model.Listing{Baslik: "second", Fiyat: model.Ptr(int64(5))},
		model.Listing{Baslik: "third", Fiyat: model.Ptr(int64(5))},
	)
	assert.Equal(t, []string{"first", "second", "third"}, titles(svc.List(ListingQuery{Sort: SortPriceDesc})))
}

func TestList_PriceRangeInclusive(t *testing.T) {
	svc := fixture(t)

	got := svc.List(ListingQuery{MinPrice: model.Ptr(1000000.0), MaxPrice: model.Ptr(2000000.0), IncludeHidden: true})
	assert.Equal(t, []string{"D", "E", "A"}, titles(got))
	for _, l := range got {
		require.NotNil(t, l.Fiyat)
		assert.GreaterOrEqual(t, *l.Fiyat, int64(1000000))
		assert.LessOrEqual(t, *l.Fiyat, int64(2000000))
	}

	onlyMin := svc.List(ListingQuery{MinPrice: model.Ptr(1500000.0)})
	assert.Equal(t, []string{"A"}, titles(onlyMin), "null price never matches a bound")
}

func TestList_SubstringFilters(t *testing.T) {
	svc := fixture(t)

	tests := []struct {
		name  string
		query ListingQuery
		want  []string
	}{
		{"category case-insensitive", ListingQuery{EmlakTipi: "daI"}, []string{"A", "C"}},
		{"region substring", ListingQuery{Il: "izm"}, []string{"D", "C"}},
		{"district excludes null", ListingQuery{Ilce: "a"}, []string{"B", "D", "A"}},
		{"combined", ListingQuery{EmlakTipi: "daire", Il: "ankara", IncludeHidden: true}, []string{"E"}},
		{"no match", ListingQuery{Il: "Bursa"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(svc.List(tt.query)))
		})
	}
}

func TestList_HiddenOnlyForAdmin(t *testing.T) {
	svc := fixture(t)

	assert.NotContains(t, titles(svc.List(ListingQuery{})), "E")
	assert.Contains(t, titles(svc.List(ListingQuery{IncludeHidden: true})), "E")
}

func TestList_EmptyIsNotNil(t *testing.T) {
	got := newTestListings(t).List(ListingQuery{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGet(t *testing.T) {
	svc := fixture(t)

	l, err := svc.Get(1, false)
	require.NoError(t, err)
	assert.Equal(t, "A", l.Baslik)

	_, err = svc.Get(5, false)
	assert.ErrorIs(t, err, ErrListingNotFound, "hidden listing is invisible anonymously")

	l, err = svc.Get(5, true)
	require.NoError(t, err)
	assert.Equal(t, "E", l.Baslik)

	_, err = svc.Get(42, true)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestCreate(t *testing.T) {
	svc := fixture(t)
	svc.now = func() time.Time { return baseTime.Add(90 * time.Minute) }

	stored := svc.Create(model.Listing{IlanNo: 1, Baslik: "new"})
	assert.Equal(t, int64(6), stored.IlanNo)
	require.NotNil(t, stored.IlanTarihi)
	assert.True(t, stored.IlanTarihi.Equal(baseTime.Add(90*time.Minute)))

	kept := svc.Create(model.Listing{Baslik: "dated", IlanTarihi: at(10)})
	assert.True(t, kept.IlanTarihi.Equal(baseTime.AddDate(0, 0, 10)), "submitted timestamp is kept")
	assert.Equal(t, 7, svc.Count())
}

func TestCreate_NormalizesPhotos(t *testing.T) {
	svc := newTestListings(t)
	got := svc.Create(model.Listing{Baslik: "x", Fotolar: " https://a/1.jpg ,, https://a/2.jpg,"})
	assert.Equal(t, "https://a/1.jpg,https://a/2.jpg", got.Fotolar)
}

func TestCreate_EmptyCollectionStartsAtOne(t *testing.T) {
	svc := newTestListings(t)
	assert.Equal(t, int64(1), svc.Create(model.Listing{IlanNo: 77}).IlanNo)
}

func TestDelete(t *testing.T) {
	svc := fixture(t)

	require.NoError(t, svc.Delete(2))
	assert.Equal(t, 4, svc.Count())
	assert.ErrorIs(t, svc.Delete(2), ErrListingNotFound)
}
