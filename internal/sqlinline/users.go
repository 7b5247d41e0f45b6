package sqlinline

const QInsertUser = `--sql fa26c454-bd52-4e36-87f5-3ac8549f6206
insert into users(id, username, password_hash, created_at)
values ($1::uuid, $2::text, $3::text, now());
`

const QSelectUserByID = `--sql a4cf74db-e738-4867-a260-f77618eafaf5
select id, username, password_hash, created_at
from users
where id = $1::uuid;
`

const QSelectUserByUsername = `--sql d8eee4f0-2b86-48ec-b036-5b3e8e2f7264
select id, username, password_hash, created_at
from users
where username = $1::text;
`
