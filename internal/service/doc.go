// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects, the generation
// boundary, and repositories (defined in internal/store) to fulfill
// application features.
//
// Key components:
//
// 1. Service Interfaces:
//   - Define application-specific operations available to the delivery mechanisms
//   - Each service focuses on a specific domain area (flashcard sets, authentication)
//
// 2. Use Case Implementations:
//   - Coordinate between the generator, repositories, and domain entities
//   - Enforce application-level rules such as generate-then-persist atomicity
//
// 3. Error Handling:
//   - Expected conditions surface as sentinel errors
//   - Generator and store sentinels pass through unwrapped so the API layer
//     can map them to status codes with errors.Is
//
// The service layer depends on domain entities and repository interfaces (from
// store), but never on specific infrastructure implementations.
package service
