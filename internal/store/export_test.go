package store

// UseFastKDF lowers the scrypt cost so tests do not spend seconds per save.
func (s *IdentityFileStore) UseFastKDF() { s.kdf = scryptParamsFast }
