package flow

func (s *UnitTestSuite) TestSelect() {
	rows := []any{
		map[string]any{"id": 1.0, "email": "a@example.com", "role": "admin"},
		map[string]any{"id": 2.0, "email": "b@example.com", "role": "member"},
		map[string]any{"id": 3.0, "email": "c@example.com", "role": "member"},
	}

	v, err := Select("", rows)
	s.NoError(err)
	s.Equal(rows, v)

	v, err = Select("[*].email", rows)
	s.NoError(err)
	s.Equal([]any{"a@example.com", "b@example.com", "c@example.com"}, v)

	v, err = Select("[?role=='member'].id", rows)
	s.NoError(err)
	s.Equal([]any{2.0, 3.0}, v)

	v, err = Select("length(@)", rows)
	s.NoError(err)
	s.Equal(3.0, v)

	v, err = Select("[0].missing", rows)
	s.NoError(err)
	s.Nil(v)

	_, err = Select("[?", rows)
	s.Error(err)
}

func (s *UnitTestSuite) TestCompileSelect() {
	s.NoError(CompileSelect(""))
	s.NoError(CompileSelect("[*].id"))
	s.Error(CompileSelect("[*"))
}
