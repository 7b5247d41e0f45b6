package sqlinline

const QInsertContribution = `--sql 5b23742b-683c-46bb-8a43-c62c78ffff77
insert into contributions(id, fundraiser_id, contribution_reference, contributor_name,
                          phone_number, amount, contribution_date, contribution_time, created_at)
values ($1::uuid, $2::uuid, $3::text, $4::text, $5::text, $6::numeric, $7::date, $8::time, now());
`

const QCountContributions = `--sql 772949f1-fac4-49f3-82fb-0806c25fc140
select count(*)
from contributions
where fundraiser_id = $1::uuid;
`

const QListContributionsPage = `--sql 6f8b1bfe-e6de-4fdb-b682-ae3544ea1ebc
select id, fundraiser_id, contribution_reference, contributor_name, phone_number,
       amount::text, contribution_date, contribution_time::text, created_at
from contributions
where fundraiser_id = $1::uuid
order by created_at, id
limit $2::int offset $3::int;
`

const QListContributionsAll = `--sql 50fd0f93-9716-4d96-8659-e79036304146
select id, fundraiser_id, contribution_reference, contributor_name, phone_number,
       amount::text, contribution_date, contribution_time::text, created_at
from contributions
where fundraiser_id = $1::uuid
order by created_at, id;
`
