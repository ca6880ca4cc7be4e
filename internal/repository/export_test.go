package repository

var EscapeLike = escapeLike
