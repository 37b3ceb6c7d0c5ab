/*
Package leaderbot provides a background analytics pipeline for a slack bot.

It watches the incoming stream of messages and emoji reactions, classifies
each one, enriches it with derived metrics (word counts, emoji counts, file
classification) and accumulates per-user counters in a document store. The
resulting collection backs a per-user leaderboard.

The pipeline is deliberately invisible: it never answers users and never
surfaces errors to the event producer. Occurrences are queued as they arrive
and a single worker drains them in order, bootstrapping newly seen users and
applying counter updates one occurrence at a time.

Leaderbot also carries a small conversational feature: it notices users
thanking the bot and answers with escalating canned replies based on the
recent channel history.
*/
package leaderbot
