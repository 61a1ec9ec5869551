package cachemanager

// RegistryEntry exposes the in-package test fixture to the external
// cachemanager_test package.
type RegistryEntry = registryEntry
