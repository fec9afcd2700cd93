// Package books builds catalog fixtures for tests. Books are generated in
// newest-first order with stable ids, so a fixture can be fed straight to a
// view model or served from a fake store API.
//
// Example usage:
//
//	shelf := books.NewBuilder().
//		WithCategory(model.CategoryFiction, 15).
//		WithBook(model.Book{Title: "Go in Action", Category: model.CategoryProgramming, Price: 35}).
//		Build()
//
// Predefined fixtures cover the common scenarios:
//
//	shelf := books.NewBuilder().WithFixture(books.FixtureFictionShelf).Build()
package books
