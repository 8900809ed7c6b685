package models

func (r *Rating) Validate() error {
	return validate.Struct(r)
}

func (l *Like) Validate() error {
	return validate.Struct(l)
}

func (s *Session) Validate() error {
	return validate.Struct(s)
}
