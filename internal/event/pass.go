package event

// Pass is a no-op producer of a transition: it has no kind-specific
// configuration. The configuration document has no key for it; it is
// synthesized by the catalog as the target of a templated next (see
// ResolveNext in the catalog package).
