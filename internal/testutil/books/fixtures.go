package books

import "github.com/Veraticus/toko/internal/model"

// Fixture is a predefined catalog for a common test scenario.
type Fixture struct {
	apply       func(*Builder) *Builder
	name        string
	description string
}

// Name returns the fixture's descriptive name.
func (f Fixture) Name() string { return f.name }

// Description explains what the fixture is for.
func (f Fixture) Description() string { return f.description }

// Predefined fixtures.
var (
	// FixtureFictionShelf is 15 fiction books: one full page of 12 and
	// a second page of 3.
	FixtureFictionShelf = Fixture{
		name:        "FictionShelf",
		description: "15 fiction books priced 10 to 24",
		apply: func(b *Builder) *Builder {
			return b.WithPrices(10, 1).WithCategory(model.CategoryFiction, 15)
		},
	}

	// FixtureMixedShelf puts the fiction shelf ahead of a few books from
	// every other category.
	FixtureMixedShelf = Fixture{
		name:        "MixedShelf",
		description: "15 fiction books followed by 5 science, 3 programming, 2 design and 2 business books",
		apply: func(b *Builder) *Builder {
			return b.WithFixture(FixtureFictionShelf).
				WithPrices(40, 1).WithCategory(model.CategoryScience, 5).
				WithPrices(30, 2.5).WithCategory(model.CategoryProgramming, 3).
				WithPrices(20, 5).WithCategory(model.CategoryDesign, 2).
				WithPrices(15, 0).WithCategory(model.CategoryBusiness, 2)
		},
	}

	// FixtureSearchShelf holds look-alike titles for query tests.
	FixtureSearchShelf = Fixture{
		name:        "SearchShelf",
		description: "titles that differ by a few letters",
		apply: func(b *Builder) *Builder {
			return b.WithTitles(model.CategoryFiction,
				"Harry Potter", "Hairy Tales", "The HARRY Files", "Dune")
		},
	}
)
